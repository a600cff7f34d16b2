package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_InOrder(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")

	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Equal(t, "run-3", gen.Generate())
}

func TestFixedIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedIDGenerator()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				gen.Generate()
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Equal(t, "run-1001", gen.Generate())
}

func TestAssertNormalized(t *testing.T) {
	assert.True(t, AssertNormalized(t, map[string]float64{"0": 0.5, "1": 0.5}))

	mock := &recorder{}
	assert.False(t, AssertNormalized(mock, map[string]float64{"0": 0.5}))
	assert.True(t, mock.failed)
}

func TestAssertProbabilities(t *testing.T) {
	got := map[string]float64{"00": 0.5, "01": 0, "10": 0, "11": 0.5}
	assert.True(t, AssertProbabilities(t, map[string]float64{"00": 0.5, "11": 0.5}, got, Tolerance))

	mock := &recorder{}
	assert.False(t, AssertProbabilities(mock, map[string]float64{"00": 1}, got, Tolerance))
}

type recorder struct {
	failed bool
}

func (r *recorder) Errorf(string, ...any) { r.failed = true }
func (r *recorder) Helper()               {}
