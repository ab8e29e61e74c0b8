// Package wire decodes the fixed 32-byte-header sensor packet format
// shared by all three transports.
package wire

const (
	// HeaderLen is the size in bytes of the fixed packet header.
	HeaderLen = 32

	// MaxPayload is the largest payload this format allows.
	MaxPayload = 4096

	// MaxDatagram is the largest datagram the UDP receiver reads.
	MaxDatagram = 65535

	// DataTypeAudio marks a payload of 16-bit LE PCM samples, and is
	// also the fallback for any unrecognized data_type.
	DataTypeAudio uint8 = 1

	// DataTypeSensorVector marks a payload of ten f32 LE channel values.
	DataTypeSensorVector uint8 = 2

	// SensorVectorLen is the channel count of a sensor vector payload.
	SensorVectorLen = 10

	// SensorVectorBytes is the byte size of a sensor vector payload.
	SensorVectorBytes = SensorVectorLen * 4
)

// Packet is a decoded sensor packet. PayloadBuf is a fixed-size array
// embedded in the struct so Decode never allocates; Payload() returns
// the live slice of it for the current PayloadLen.
type Packet struct {
	SensorID    uint32
	TimestampUs uint64
	DataType    uint8
	Seq         uint64
	PayloadLen  uint16
	PayloadBuf  [MaxPayload]byte
}

// Payload returns the decoded payload bytes. The returned slice aliases
// Packet's own storage and is only valid until the next Decode call that
// reuses this Packet.
func (p *Packet) Payload() []byte {
	return p.PayloadBuf[:p.PayloadLen]
}
