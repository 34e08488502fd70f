package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Start(t *testing.T) {
	tests := []struct {
		name  string
		after int64
		want  []int64
	}{
		{"from zero", 0, []int64{1, 2, 3}},
		{"continuing", 41, []int64{42, 43}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequence(tt.after)
			assert.Equal(t, tt.after, s.Current())
			for _, want := range tt.want {
				assert.Equal(t, want, s.Next())
			}
			assert.Equal(t, tt.want[len(tt.want)-1], s.Current(), "Current does not advance")
		})
	}
}

func TestSequence_Reset(t *testing.T) {
	s := NewSequence(10)
	s.Next()
	require.Equal(t, int64(11), s.Current())

	s.Reset()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
}

func TestSequence_ConcurrentUnique(t *testing.T) {
	s := NewSequence(0)
	const goroutines = 64
	const calls = 100

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*calls)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				v := s.Next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*calls, "no value handed out twice")
	assert.Equal(t, int64(goroutines*calls), s.Current())
}
