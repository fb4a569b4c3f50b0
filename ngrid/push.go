package ngrid

import (
	"encoding/binary"
	"math"
)

// pushBuilder assembles a push-constant byte range in the order a
// shader's Push uniform block declares its fields. Every kernel in the
// catalog declares plain uint/float scalars and small fixed-size
// arrays, so a flat little-endian byte builder is all that is needed;
// there is no struct padding to reason about since every field is 4
// bytes wide.
type pushBuilder struct {
	b []byte
}

func newPush() *pushBuilder { return &pushBuilder{} }

func (p *pushBuilder) u32(v uint32) *pushBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	p.b = append(p.b, tmp[:]...)
	return p
}

func (p *pushBuilder) i32(v int32) *pushBuilder { return p.u32(uint32(v)) }

func (p *pushBuilder) f32(v float32) *pushBuilder {
	return p.u32(math.Float32bits(v))
}

// u32s appends each element of v as a 4-byte field, in order.
func (p *pushBuilder) u32s(v []uint32) *pushBuilder {
	for _, x := range v {
		p.u32(x)
	}
	return p
}

// u32sPadded appends v, then pads with zero fields until n total
// fields have been written, matching a shader's fixed-size uint
// arrays (e.g. uint offset[10]) for ranks below the array's capacity.
func (p *pushBuilder) u32sPadded(v []int, n int) *pushBuilder {
	for i := 0; i < n; i++ {
		if i < len(v) {
			p.u32(uint32(v[i]))
		} else {
			p.u32(0)
		}
	}
	return p
}

func (p *pushBuilder) bytes() []byte { return p.b }
