// Package transfer implements the reliable delivery engine: each file
// travels over its own logical connection, driven by a stop-and-wait sender
// and a concurrent acknowledgment listener that share one pending queue.
package transfer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
	"github.com/kyrillosishak/TCP-over-UDP/internal/util"
)

// Conn is one logical connection: a dedicated UDP socket, the pending queue
// holding one file's packets, and the sender/listener pair that drives them.
type Conn struct {
	id         uint32
	sock       *net.UDPConn
	dest       *net.UDPAddr
	timeout    time.Duration
	maxRetries int // 0 retries forever

	queue *pendingQueue

	// wake coalesces ack notifications from the listener: raising an
	// already-raised signal is a no-op, and the sender re-checks the queue
	// head after every wake-up.
	wake chan struct{}

	listenerDone chan struct{}
}

// newConn builds a connection around an already-bound socket and a non-empty
// packet sequence. The connection takes ownership of the socket.
func newConn(sock *net.UDPConn, dest *net.UDPAddr, timeout time.Duration, maxRetries int, packets []*protocol.Packet) *Conn {
	return &Conn{
		id:           packets[0].ConnID,
		sock:         sock,
		dest:         dest,
		timeout:      timeout,
		maxRetries:   maxRetries,
		queue:        newPendingQueue(packets),
		wake:         make(chan struct{}, 1),
		listenerDone: make(chan struct{}),
	}
}

// run starts the listener, drives the send loop to completion, joins the
// listener, and releases the socket. On a send-loop failure the socket is
// closed first so the listener's blocking read is unblocked.
func (c *Conn) run(ctx context.Context) error {
	go c.runListener()

	if err := c.runSender(ctx); err != nil {
		c.sock.Close()
		<-c.listenerDone
		return err
	}

	// Let the listener observe the FIN-ACK before releasing the socket.
	<-c.listenerDone
	c.sock.Close()
	return nil
}

// transmit writes one packet to the destination. Called with the queue lock
// held, via sendHead/resendHead.
func (c *Conn) transmit(pkt *protocol.Packet) error {
	data := protocol.Encode(pkt)
	if _, err := c.sock.WriteToUDP(data, c.dest); err != nil {
		return fmt.Errorf("send %s: %w", pkt, err)
	}
	util.Stats.AddSent(len(data))
	util.LogDebug("[%08x] %s <- %s", c.id, c.dest, pkt)
	return nil
}

// signalAck wakes the sender. Non-blocking: if a wake-up is already pending
// the two collapse into one.
func (c *Conn) signalAck() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
