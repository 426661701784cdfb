package transfer

import (
	"sync"

	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
)

// pendingQueue is the ordered set of sent-but-unacknowledged packets for one
// connection. The sender reads and transmits its head while the ack listener
// removes acknowledged entries, so every access goes through the mutex.
type pendingQueue struct {
	mu      sync.Mutex
	packets []*protocol.Packet
}

func newPendingQueue(packets []*protocol.Packet) *pendingQueue {
	return &pendingQueue{packets: packets}
}

// head returns the first pending packet, or nil when the queue is empty.
func (q *pendingQueue) head() *protocol.Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.packets) == 0 {
		return nil
	}
	return q.packets[0]
}

// sendHead invokes send on the head packet while holding the queue lock, so
// a concurrent removal can never interleave with the read-and-transmit step.
// Returns nil, nil when the queue is empty.
func (q *pendingQueue) sendHead(send func(*protocol.Packet) error) (*protocol.Packet, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.packets) == 0 {
		return nil, nil
	}
	pkt := q.packets[0]
	if err := send(pkt); err != nil {
		return pkt, err
	}
	return pkt, nil
}

// resendHead retransmits pkt, but only if it is still at the head of the
// queue. Reports whether a retransmission actually happened.
func (q *pendingQueue) resendHead(pkt *protocol.Packet, send func(*protocol.Packet) error) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.packets) == 0 || q.packets[0] != pkt {
		return false, nil
	}
	return true, send(pkt)
}

// ack removes the pending packet that ack confirms. Duplicate or unrelated
// acknowledgments leave the queue untouched.
func (q *pendingQueue) ack(ack *protocol.Packet) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, pkt := range q.packets {
		if ack.Acknowledges(pkt) {
			q.packets = append(q.packets[:i], q.packets[i+1:]...)
			return true
		}
	}
	return false
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.packets)
}
