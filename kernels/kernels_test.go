package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceEveryCatalogEntry(t *testing.T) {
	for _, name := range All {
		src, err := Source(name)
		require.NoErrorf(t, err, "Source(%s)", name)
		assert.NotEmptyf(t, src, "Source(%s) returned empty source", name)
		assert.Containsf(t, string(src), "void main()", "Source(%s) missing entry point", name)
	}
}

func TestSourceUnknown(t *testing.T) {
	_, err := Source(Name("does_not_exist"))
	assert.Error(t, err)
}

func TestMustSourcePanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() {
		MustSource(Name("does_not_exist"))
	})
}

// spirvMagic is the little-endian SPIR-V magic number every module
// begins with (SPIR-V spec §2.3).
const spirvMagic = 0x07230203

func TestCodeEveryCatalogEntry(t *testing.T) {
	for _, name := range All {
		code, err := Code(name)
		require.NoErrorf(t, err, "Code(%s)", name)
		require.GreaterOrEqualf(t, len(code), 20, "Code(%s) shorter than a SPIR-V header", name)
		magic := uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24
		assert.Equalf(t, uint32(spirvMagic), magic, "Code(%s) missing SPIR-V magic number", name)
	}
}

func TestCodeUnknown(t *testing.T) {
	_, err := Code(Name("does_not_exist"))
	assert.Error(t, err)
}

func TestMustCodePanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() {
		MustCode(Name("does_not_exist"))
	})
}
