package wire

import (
	"encoding/binary"
	"errors"
)

// Parse errors from decode, matching the taxonomy in the wire format
// contract: short input, an oversize declared payload, or a declared
// payload the input slice doesn't actually contain.
var (
	ErrShortHeader    = errors.New("wire: input shorter than header")
	ErrPayloadTooLarge = errors.New("wire: declared payload_len exceeds maximum")
	ErrTruncated      = errors.New("wire: input shorter than header + payload_len")
)

// Decode parses a 32-byte-header sensor packet from buf into out. It
// never reads past len(buf) and never allocates.
//
// Layout (little-endian): sensor_id:u32 @0 | timestamp_us:u64 @4 |
// data_type:u8 @12 | reserved:3 | payload_len:u16 @16 | reserved:2 |
// seq:u64 @20 | padding:4 | payload[payload_len] @32.
func Decode(buf []byte, out *Packet) error {
	if len(buf) < HeaderLen {
		return ErrShortHeader
	}

	payloadLen := binary.LittleEndian.Uint16(buf[16:18])
	if payloadLen > MaxPayload {
		return ErrPayloadTooLarge
	}
	if len(buf) < HeaderLen+int(payloadLen) {
		return ErrTruncated
	}

	out.SensorID = binary.LittleEndian.Uint32(buf[0:4])
	out.TimestampUs = binary.LittleEndian.Uint64(buf[4:12])
	out.DataType = buf[12]
	out.Seq = binary.LittleEndian.Uint64(buf[20:28])
	out.PayloadLen = payloadLen
	copy(out.PayloadBuf[:payloadLen], buf[HeaderLen:HeaderLen+int(payloadLen)])

	return nil
}

// Encode writes the given header fields and payload in wire format
// into buf, which must be at least HeaderLen+len(payload) bytes long,
// and returns the number of bytes written. Used by tests to build
// packets.
func Encode(buf []byte, sensorID uint32, timestampUs uint64, dataType uint8, seq uint64, payload []byte) int {
	binary.LittleEndian.PutUint32(buf[0:4], sensorID)
	binary.LittleEndian.PutUint64(buf[4:12], timestampUs)
	buf[12] = dataType
	buf[13], buf[14], buf[15] = 0, 0, 0
	binary.LittleEndian.PutUint16(buf[16:18], uint16(len(payload)))
	buf[18], buf[19] = 0, 0
	binary.LittleEndian.PutUint64(buf[20:28], seq)
	buf[28], buf[29], buf[30], buf[31] = 0, 0, 0, 0
	copy(buf[HeaderLen:], payload)
	return HeaderLen + len(payload)
}
