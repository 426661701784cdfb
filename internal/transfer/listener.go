package transfer

import (
	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
	"github.com/kyrillosishak/TCP-over-UDP/internal/util"
)

// runListener consumes datagrams on the connection's socket until a FIN-ACK
// arrives or the socket is closed. Every matching acknowledgment is removed
// from the pending queue; every datagram, matched or not, wakes the sender.
func (c *Conn) runListener() {
	defer close(c.listenerDone)

	buf := make([]byte, protocol.MaxPacketSize)
	for {
		n, addr, err := c.sock.ReadFromUDP(buf)
		if err != nil {
			// Socket closed during shutdown, or the transfer was abandoned.
			util.LogDebug("[%08x] receive loop ended: %v", c.id, err)
			return
		}

		pkt, err := protocol.Decode(buf[:n])
		if err != nil {
			// Undecodable datagrams never match a pending packet, but the
			// sender is still woken to re-evaluate its wait.
			util.LogDebug("[%08x] undecodable datagram from %s: %v", c.id, addr, err)
			c.signalAck()
			continue
		}

		util.LogDebug("[%08x] %s -> %s", c.id, addr, pkt)

		if c.queue.ack(pkt) {
			util.Stats.AddAck()
		}

		finAck := pkt.Type == protocol.TypeFinAck
		c.signalAck()

		if finAck {
			util.LogDebug("[%08x] FIN-ACK received, listener done", c.id)
			return
		}
	}
}
