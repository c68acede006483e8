package sacn

import (
	"encoding/binary"
	"fmt"
	"math"
)

// E1.31 constants.
const (
	// Port is the UDP port E1.31 receivers listen on.
	Port = 5568

	// SlotCount is the number of DMX slots in a universe.
	SlotCount = 512

	// PacketSize is the length of a full-universe data packet.
	PacketSize = 638

	// MaxUniverse is the highest universe E1.31 allows.
	MaxUniverse = 63999

	sourceNameSize = 64
)

// Vectors and fixed fields of the three E1.31 layers.
const (
	rootVector    uint32 = 0x00000004
	framingVector uint32 = 0x00000002
	dmpVector     byte   = 0x02
	dmpAddrType   byte   = 0xa1
	flagsHigh     uint16 = 0x7000
)

// Byte offsets within a data packet.
const (
	offRootFlags   = 16
	offRootVector  = 18
	offCID         = 22
	offFrameFlags  = 38
	offFrameVector = 40
	offSourceName  = 44
	offPriority    = 108
	offSyncAddress = 109
	offSequence    = 111
	offOptions     = 112
	offUniverse    = 113
	offDMPFlags    = 115
	offDMPVector   = 117
	offAddrType    = 118
	offFirstAddr   = 119
	offAddrIncr    = 121
	offValueCount  = 123
	offStartCode   = 125
	offSlots       = 126
)

var acnPacketID = [12]byte{'A', 'S', 'C', '-', 'E', '1', '.', '1', '7', 0, 0, 0}

// Frame is the content of one data packet.
type Frame struct {
	CID        [16]byte
	SourceName string
	Priority   byte
	Sequence   byte
	Universe   uint16
	Slots      [SlotCount]byte
}

// Encode serialises f as an E1.31 data packet carrying a null start code
// and all 512 slots.
//
// Layout (big-endian):
//
//	Root layer     0..37   preamble, postamble, ACN id, flags+len, vector, CID
//	Framing layer  38..114 flags+len, vector, source name, priority, sync,
//	                       sequence, options, universe
//	DMP layer      115..637 flags+len, vector, address/data type, first
//	                       address, increment, count, start code, slots
func (f *Frame) Encode() []byte {
	b := make([]byte, PacketSize)

	binary.BigEndian.PutUint16(b[0:], 0x0010)
	binary.BigEndian.PutUint16(b[2:], 0x0000)
	copy(b[4:], acnPacketID[:])
	binary.BigEndian.PutUint16(b[offRootFlags:], flagsHigh|uint16(PacketSize-offRootFlags))
	binary.BigEndian.PutUint32(b[offRootVector:], rootVector)
	copy(b[offCID:], f.CID[:])

	binary.BigEndian.PutUint16(b[offFrameFlags:], flagsHigh|uint16(PacketSize-offFrameFlags))
	binary.BigEndian.PutUint32(b[offFrameVector:], framingVector)
	name := f.SourceName
	if len(name) > sourceNameSize-1 {
		name = name[:sourceNameSize-1]
	}
	copy(b[offSourceName:offSourceName+sourceNameSize], name)
	b[offPriority] = f.Priority
	binary.BigEndian.PutUint16(b[offSyncAddress:], 0)
	b[offSequence] = f.Sequence
	b[offOptions] = 0
	binary.BigEndian.PutUint16(b[offUniverse:], f.Universe)

	binary.BigEndian.PutUint16(b[offDMPFlags:], flagsHigh|uint16(PacketSize-offDMPFlags))
	b[offDMPVector] = dmpVector
	b[offAddrType] = dmpAddrType
	binary.BigEndian.PutUint16(b[offFirstAddr:], 0)
	binary.BigEndian.PutUint16(b[offAddrIncr:], 1)
	binary.BigEndian.PutUint16(b[offValueCount:], SlotCount+1)
	b[offStartCode] = 0
	copy(b[offSlots:], f.Slots[:])

	return b
}

// DecodeFrame parses a full-universe E1.31 data packet.
func DecodeFrame(b []byte) (*Frame, error) {
	if len(b) != PacketSize {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidPacket, len(b))
	}
	if [12]byte(b[4:16]) != acnPacketID {
		return nil, fmt.Errorf("%w: bad ACN packet identifier", ErrInvalidPacket)
	}
	if binary.BigEndian.Uint32(b[offRootVector:]) != rootVector ||
		binary.BigEndian.Uint32(b[offFrameVector:]) != framingVector ||
		b[offDMPVector] != dmpVector {
		return nil, fmt.Errorf("%w: unexpected vector", ErrInvalidPacket)
	}
	if b[offStartCode] != 0 {
		return nil, fmt.Errorf("%w: start code 0x%02x", ErrInvalidPacket, b[offStartCode])
	}

	f := &Frame{
		CID:      [16]byte(b[offCID : offCID+16]),
		Priority: b[offPriority],
		Sequence: b[offSequence],
		Universe: binary.BigEndian.Uint16(b[offUniverse:]),
	}
	name := b[offSourceName : offSourceName+sourceNameSize]
	for i, c := range name {
		if c == 0 {
			name = name[:i]
			break
		}
	}
	f.SourceName = string(name)
	copy(f.Slots[:], b[offSlots:])
	return f, nil
}

// MulticastAddr returns the E1.31 multicast group for a universe.
func MulticastAddr(universe uint16) string {
	return fmt.Sprintf("239.255.%d.%d", universe>>8, universe&0xff)
}

// Clamp rounds each level and limits it to 0..255. At most SlotCount
// levels are copied; missing slots stay 0. NaN becomes 0.
func Clamp(levels []float64) [SlotCount]byte {
	var out [SlotCount]byte
	n := min(len(levels), SlotCount)
	for i := range n {
		out[i] = clampLevel(levels[i])
	}
	return out
}

func clampLevel(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(math.Round(v))
}
