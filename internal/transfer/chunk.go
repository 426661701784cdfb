package transfer

import (
	"io"
	"os"

	"github.com/kyrillosishak/TCP-over-UDP/internal/protocol"
)

// filePackets reads path in fixed-size chunks and converts it into the
// packet sequence for one connection: every chunk becomes a DATA packet
// except the last, which becomes FIN. All packets share one freshly
// allocated connection id, with sequence numbers starting at 0. An empty
// file yields no packets.
func filePackets(path string) ([]*protocol.Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	id := protocol.PickID()
	var packets []*protocol.Packet
	buf := make([]byte, protocol.MaxDataSize)

	for seq := uint32(0); ; seq++ {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			payload := make([]byte, n)
			copy(payload, buf[:n])
			packets = append(packets, &protocol.Packet{
				Type:    protocol.TypeData,
				ConnID:  id,
				Seq:     seq,
				Length:  uint32(n),
				Payload: payload,
			})
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if len(packets) > 0 {
		packets[len(packets)-1].Type = protocol.TypeFin
	}
	return packets, nil
}
