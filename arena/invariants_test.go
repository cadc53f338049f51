package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudfly/segarena/arena"
)

// assertInvariants checks the invariants that must hold after every
// sequence of operations: tiling, sentinel validity (via Validate),
// no-adjacent-free, and stats consistency against a free-list walk (Stats
// itself is recomputed from a walk on every mutation, so this mostly
// re-derives the same totals independently from Blocks()).
func assertInvariants(t *testing.T, a *arena.Arena) {
	t.Helper()

	overhead := a.HeaderSize() + a.FooterSize()

	var offset uint32
	var lastFree *bool
	blockCount := 0

	a.Blocks(func(info arena.BlockInfo) bool {
		assert.Equal(t, offset, info.Offset, "tiling: block should start exactly where the previous one ended")
		offset += overhead + info.PayloadSize
		blockCount++

		if lastFree != nil {
			assert.False(t, *lastFree && info.Free, "no two physically adjacent blocks should both be free")
		}
		freeCopy := info.Free
		lastFree = &freeCopy
		return true
	})

	assert.Equal(t, a.Capacity(), offset, "tiling: walking the arena should land exactly on its end")

	violations := a.Validate()
	assert.Empty(t, violations, "Validate should find no sentinel/bounds violations")

	var freeBytes, freeBlocks uint64
	a.Blocks(func(info arena.BlockInfo) bool {
		if info.Free {
			freeBytes += uint64(info.PayloadSize)
			freeBlocks++
		}
		return true
	})

	s := a.Stats()
	assert.Equal(t, freeBytes, s.FreeBytes, "stats free bytes should match a full arena walk")
	assert.Equal(t, freeBlocks, s.FreeBlocks, "stats free blocks should match a full arena walk")
	_ = blockCount
}
