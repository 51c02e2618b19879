package retrodisasm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordReaderFromBytes(t *testing.T, data []byte, wordsizeBytes uint, endianLittle bool) *WordReader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binary.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	wr, err := NewWordReader(path, wordsizeBytes, endianLittle)
	require.NoError(t, err)
	t.Cleanup(func() { wr.Close() })
	return wr
}

func TestCollectUpwardBranchesBackwardJump(t *testing.T) {
	is := mustParse(t, "1 byte words\nmask 0xF0\n0x00 = nop\n0x10 = jmpb ubranch 0x0F\n")

	// idx0,1,2 = nop; idx3 = jmpb with delta 2, target = 3-2 = 1.
	wr := wordReaderFromBytes(t, []byte{0x00, 0x00, 0x00, 0x12}, 1, true)

	bs, err := CollectUpwardBranches(wr, is)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, bs.Sorted())

	// the reader must be rewound for the emit sweep
	w, err := wr.Next()
	require.NoError(t, err)
	assert.Equal(t, Word(0x00), w)
}

func TestCollectUpwardBranchesIgnoresForwardDbranch(t *testing.T) {
	is := mustParse(t, "1 byte words\nmask 0xF0\n0x00 = nop\n0x20 = jmpf dbranch 0x0F\n")

	wr := wordReaderFromBytes(t, []byte{0x00, 0x22, 0x00, 0x00}, 1, true)

	bs, err := CollectUpwardBranches(wr, is)
	require.NoError(t, err)
	assert.Empty(t, bs.Sorted())
}

func TestCollectUpwardBranchesUnderflow(t *testing.T) {
	is := mustParse(t, "1 byte words\nmask 0xF0\n0x10 = jmpb ubranch 0x0F\n")

	// idx0 is itself a jmpb with delta 5, underflowing index 0.
	wr := wordReaderFromBytes(t, []byte{0x15}, 1, true)

	_, err := CollectUpwardBranches(wr, is)
	require.Error(t, err)
	var uf *BranchUnderflowError
	assert.ErrorAs(t, err, &uf)
}

func TestCollectUpwardBranchesUnknownInstruction(t *testing.T) {
	is := mustParse(t, "1 byte words\nmask 0xF0\n0x00 = nop\n")

	wr := wordReaderFromBytes(t, []byte{0xF0}, 1, true)

	_, err := CollectUpwardBranches(wr, is)
	require.Error(t, err)
	var unk *UnknownInstructionError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, uint64(0), unk.Index)
}

func TestBranchSetSortedOrder(t *testing.T) {
	bs := make(BranchSet)
	bs.Insert(5)
	bs.Insert(1)
	bs.Insert(3)
	assert.Equal(t, []uint64{1, 3, 5}, bs.Sorted())
	assert.True(t, bs.Contains(3))
	assert.False(t, bs.Contains(42))
}
