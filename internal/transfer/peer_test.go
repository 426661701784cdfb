package transfer

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
)

// testPeer is a loopback UDP receiver that acknowledges every packet it
// receives, optionally delaying the acknowledgment of specific sequence
// numbers. It records every decoded datagram in arrival order.
type testPeer struct {
	t    *testing.T
	sock *net.UDPConn

	mu     sync.Mutex
	seen   []*protocol.Packet
	delay  map[uint32]time.Duration
	silent bool // never acknowledge anything
}

// newTestPeer binds a peer to an ephemeral loopback port and starts its
// receive loop. The socket is closed via t.Cleanup.
func newTestPeer(t *testing.T) *testPeer {
	t.Helper()

	sock, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("bind test peer: %v", err)
	}

	p := &testPeer{
		t:     t,
		sock:  sock,
		delay: make(map[uint32]time.Duration),
	}

	t.Cleanup(func() { sock.Close() })
	go p.loop()

	return p
}

// addr returns the peer's UDP address for use as a transfer destination.
func (p *testPeer) addr() *net.UDPAddr {
	return p.sock.LocalAddr().(*net.UDPAddr)
}

// delayAck makes the peer wait d before acknowledging packets with the given
// sequence number. Must be set before the sender starts.
func (p *testPeer) delayAck(seq uint32, d time.Duration) {
	p.mu.Lock()
	p.delay[seq] = d
	p.mu.Unlock()
}

// mute makes the peer record packets without ever acknowledging them.
func (p *testPeer) mute() {
	p.mu.Lock()
	p.silent = true
	p.mu.Unlock()
}

// countSeq returns how many datagrams with the given sequence number the
// peer has received so far, duplicates included.
func (p *testPeer) countSeq(seq uint32) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, pkt := range p.seen {
		if pkt.Seq == seq {
			n++
		}
	}
	return n
}

// countType returns how many datagrams with the given type tag the peer has
// received so far.
func (p *testPeer) countType(typ uint8) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, pkt := range p.seen {
		if pkt.Type == typ {
			n++
		}
	}
	return n
}

// received returns the total number of decoded datagrams seen so far.
func (p *testPeer) received() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func (p *testPeer) loop() {
	buf := make([]byte, protocol.MaxPacketSize)
	for {
		n, addr, err := p.sock.ReadFromUDP(buf)
		if err != nil {
			return
		}

		pkt, err := protocol.Decode(buf[:n])
		if err != nil {
			continue
		}

		p.mu.Lock()
		p.seen = append(p.seen, pkt)
		d := p.delay[pkt.Seq]
		silent := p.silent
		p.mu.Unlock()

		if silent {
			continue
		}
		go p.ackAfter(pkt, addr, d)
	}
}

// ackAfter sends the acknowledgment for pkt back to addr after the given
// delay. FIN packets are answered with FIN-ACK, everything else with ACK.
func (p *testPeer) ackAfter(pkt *protocol.Packet, addr *net.UDPAddr, d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}

	ackType := protocol.TypeAck
	if pkt.Type == protocol.TypeFin {
		ackType = protocol.TypeFinAck
	}

	ack := &protocol.Packet{Type: ackType, ConnID: pkt.ConnID, Seq: pkt.Seq}
	p.sock.WriteToUDP(protocol.Encode(ack), addr)
}
