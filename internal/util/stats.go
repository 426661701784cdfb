package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide transfer counter.
var Stats = &stats{}

type stats struct {
	ActiveConns  atomic.Int64 // connections currently transferring
	BytesSent    atomic.Int64 // cumulative bytes written to the network
	AcksReceived atomic.Int64 // cumulative acknowledged packets
	Retransmits  atomic.Int64 // cumulative retransmissions
}

func (s *stats) AddConn()       { s.ActiveConns.Add(1) }
func (s *stats) RemoveConn()    { s.ActiveConns.Add(-1) }
func (s *stats) AddSent(n int)  { s.BytesSent.Add(int64(n)) }
func (s *stats) AddAck()        { s.AcksReceived.Add(1) }
func (s *stats) AddRetransmit() { s.Retransmits.Add(1) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

const reportInterval = 5 * time.Second

// StartStatsReporter launches a goroutine that logs transfer statistics
// every 5 seconds while transfers are active. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()

		var prevSent, prevAcks, prevRetrans int64
		for {
			select {
			case <-ticker.C:
				sent := Stats.BytesSent.Load()
				acks := Stats.AcksReceived.Load()
				retrans := Stats.Retransmits.Load()
				conns := Stats.ActiveConns.Load()

				rate := float64(sent-prevSent) / reportInterval.Seconds()

				if sent != prevSent || acks != prevAcks || retrans != prevRetrans {
					pterm.DefaultLogger.Info(formatStats(rate, acks, retrans, conns))
				}

				prevSent = sent
				prevAcks = acks
				prevRetrans = retrans

			case <-ctx.Done():
				return
			}
		}
	}()
}

// byteUnits defines the units for formatting byte counts in a human-readable way.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes formats a byte count into a human-readable string with fixed width (exactly 8 chars)
// for example: "99.0   B", " 1.5 KiB", " 0.1 MiB", "98.9 GiB", etc.
func formatBytes(b float64) string {
	unitIdx := 0

	// to prevent "100.0 KiB", which is 9 chars
	for b > 99 && unitIdx < 5 {
		b /= 1024
		unitIdx++
	}

	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unitIdx])
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(rate float64, acks, retrans, conns int64) string {
	return fmt.Sprintf("Out: %s/s | Acked: %d | Retrans: %d | Active: %d",
		formatBytes(rate),
		acks,
		retrans,
		conns,
	)
}
