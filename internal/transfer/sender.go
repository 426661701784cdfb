package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
	"github.com/kyrillosishak/TCP-over-UDP/internal/util"
)

// runSender drives the stop-and-wait loop: transmit the head of the pending
// queue, wait until the listener has removed it, move on to the new head.
// Returns nil once every packet has been acknowledged.
func (c *Conn) runSender(ctx context.Context) error {
	for {
		sent, err := c.queue.sendHead(c.transmit)
		if err != nil {
			return err
		}
		if sent == nil {
			util.LogInfo("[%08x] all packets sent and acknowledged", c.id)
			return nil
		}
		if err := c.awaitAck(ctx, sent); err != nil {
			return err
		}
	}
}

// awaitAck blocks until the listener removes sent from the queue. Each
// timeout triggers exactly one retransmission of the same packet, then the
// wait restarts. The listener signals on every received datagram, related or
// not, so a wake-up only advances the loop when the head actually changed.
func (c *Conn) awaitAck(ctx context.Context, sent *protocol.Packet) error {
	retries := 0
	for {
		timer := time.NewTimer(c.timeout)
		select {
		case <-c.wake:
			timer.Stop()
			if c.queue.head() != sent {
				return nil
			}
			// Spurious wake-up: an unrelated datagram arrived. Keep waiting.

		case <-timer.C:
			if c.maxRetries > 0 && retries >= c.maxRetries {
				return fmt.Errorf("packet %s unacknowledged after %d retransmissions", sent, retries)
			}
			resent, err := c.queue.resendHead(sent, c.transmit)
			if err != nil {
				return err
			}
			if !resent {
				// Acknowledged between the timeout firing and the lock; the
				// pending wake-up is consumed on the next iteration.
				return nil
			}
			retries++
			util.Stats.AddRetransmit()
			util.LogDebug("[%08x] retransmitting %s (attempt %d)", c.id, sent, retries)

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
