package transfer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kyrillosishak/TCP-over-UDP/internal/config"
	"github.com/kyrillosishak/TCP-over-UDP/internal/util"
)

// Local port range for the random base port. Each connection binds
// base+index so concurrent transfers never share a local port; the base is
// clamped so base+index stays inside the range.
const (
	basePortMin = 1025
	basePortMax = 65534
)

// Send transfers every file in cfg over its own connection and blocks until
// all of them have finished. Per-file failures (unreadable file, empty file,
// bind failure) are reported and skipped; they never abort the rest of the
// batch. The returned error aggregates everything that went wrong.
func Send(ctx context.Context, cfg *config.Config) error {
	dest, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(cfg.DestHost, strconv.Itoa(cfg.DestPort)))
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	bindIP := net.ParseIP(cfg.BindHost)
	if bindIP == nil {
		return fmt.Errorf("invalid bind host %q", cfg.BindHost)
	}

	basePort := basePortMin + rand.Intn(basePortMax-basePortMin-len(cfg.Files)+1)

	var g errgroup.Group
	var failed []error
	started := 0

	for idx, path := range cfg.Files {
		packets, err := filePackets(path)
		if err != nil {
			util.LogError("cannot open %s: %v", path, err)
			failed = append(failed, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if len(packets) == 0 {
			util.LogWarning("%s is empty, nothing to send", path)
			continue
		}

		src := &net.UDPAddr{IP: bindIP, Port: basePort + idx}
		sock, err := net.ListenUDP("udp4", src)
		if err != nil {
			util.LogError("cannot bind %s for %s: %v", src, path, err)
			failed = append(failed, fmt.Errorf("%s: bind %s: %w", path, src, err))
			continue
		}

		conn := newConn(sock, dest, cfg.Timeout, cfg.MaxRetries, packets)
		util.LogInfo("[%08x] sending %s (%d packets) from %s", conn.id, path, len(packets), src)

		util.Stats.AddConn()
		started++

		name := path
		g.Go(func() error {
			defer util.Stats.RemoveConn()
			if err := conn.run(ctx); err != nil {
				util.LogError("transfer of %s failed: %v", name, err)
				return fmt.Errorf("%s: %w", name, err)
			}
			util.LogSuccess("finished sending %s", name)
			return nil
		})
	}

	if started == 0 {
		util.LogWarning("no transfers started")
	}

	if err := g.Wait(); err != nil {
		failed = append(failed, err)
	}
	return errors.Join(failed...)
}
