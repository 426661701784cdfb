// Package protocol defines the packet format shared by the sender and the
// receiving peer of a file transfer.
package protocol

import (
	"fmt"
	"math/rand"
)

// Packet type constants.
const (
	TypeData   uint8 = 0x01 // file chunk
	TypeFin    uint8 = 0x02 // last chunk of a file
	TypeAck    uint8 = 0x03 // acknowledgment for a DATA packet
	TypeFinAck uint8 = 0x04 // acknowledgment for a FIN packet
)

// Datagram size limits.
const (
	MaxDataSize   = 32768 // max payload bytes carried by one packet
	MaxPacketSize = 33000 // max size of an encoded packet on the wire
)

// HeaderSize is the fixed header size: Type(1) + ConnID(4) + Seq(4) + Length(4).
const HeaderSize = 13

// Packet represents one protocol datagram. ConnID groups all packets that
// belong to a single file transfer; Seq orders them within the transfer.
type Packet struct {
	Type    uint8
	ConnID  uint32
	Seq     uint32
	Length  uint32 // payload length as declared in the header
	Payload []byte // only used for TypeData and TypeFin
}

// PickID allocates a connection identifier for a new transfer.
func PickID() uint32 {
	return rand.Uint32()
}

// Acknowledges reports whether p confirms pending: an acknowledgment mirrors
// the connection id and sequence number of the packet it confirms, so the
// match ignores the type tag (ACK confirms DATA, FIN-ACK confirms FIN).
func (p *Packet) Acknowledges(pending *Packet) bool {
	return p.ConnID == pending.ConnID && p.Seq == pending.Seq
}

func (p *Packet) String() string {
	return fmt.Sprintf("%s(id=%08x seq=%d len=%d)", typeName(p.Type), p.ConnID, p.Seq, p.Length)
}

func typeName(t uint8) string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeFin:
		return "FIN"
	case TypeAck:
		return "ACK"
	case TypeFinAck:
		return "FIN-ACK"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", t)
	}
}
