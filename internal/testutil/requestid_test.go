package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_InOrderThenRepeats(t *testing.T) {
	gen := NewFixedIDGenerator("req-1", "req-2")

	assert.Equal(t, "req-1", gen.Generate())
	assert.Equal(t, "req-2", gen.Generate())
	assert.Equal(t, "req-2", gen.Generate())
}

func TestFixedIDGenerator_EmptyDefault(t *testing.T) {
	gen := NewFixedIDGenerator()

	assert.Equal(t, "test-request", gen.Generate())
}

func TestFixedIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedIDGenerator("thread-safe-id")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-id", gen.Generate())
			}
		}()
	}
	wg.Wait()
}

func TestDexFS_HasBaseAndMods(t *testing.T) {
	fsys := DexFS()
	for _, name := range []string{"pokedex.yaml", "formats.cue", "mods/gen4/scripts.yaml"} {
		_, ok := fsys[name]
		assert.True(t, ok, name)
	}
}
