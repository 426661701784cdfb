package protocol

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes a Packet into a self-contained datagram.
func Encode(pkt *Packet) []byte {
	buf := make([]byte, HeaderSize+len(pkt.Payload))
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.ConnID)
	binary.BigEndian.PutUint32(buf[5:9], pkt.Seq)
	binary.BigEndian.PutUint32(buf[9:13], pkt.Length)
	if len(pkt.Payload) > 0 {
		copy(buf[HeaderSize:], pkt.Payload)
	}
	return buf
}

// Decode deserializes one datagram into a Packet.
func Decode(data []byte) (*Packet, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("packet too short: %d bytes (need at least %d)", len(data), HeaderSize)
	}
	pkt := &Packet{
		Type:   data[0],
		ConnID: binary.BigEndian.Uint32(data[1:5]),
		Seq:    binary.BigEndian.Uint32(data[5:9]),
		Length: binary.BigEndian.Uint32(data[9:13]),
	}
	if pkt.Length != uint32(len(data)-HeaderSize) {
		return nil, fmt.Errorf("payload length mismatch: header declares %d, datagram carries %d",
			pkt.Length, len(data)-HeaderSize)
	}
	if len(data) > HeaderSize {
		pkt.Payload = make([]byte, len(data)-HeaderSize)
		copy(pkt.Payload, data[HeaderSize:])
	}
	return pkt, nil
}
