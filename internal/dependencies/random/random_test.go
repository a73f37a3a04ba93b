package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesAlphabet(t *testing.T) {
	r := New()
	s := r.String(64, "ab")

	assert.Len(t, s, 64)
	assert.Empty(t, strings.Trim(s, "ab"))
}

func TestStringEmptyInputs(t *testing.T) {
	r := New()
	assert.Empty(t, r.String(0, "abc"))
	assert.Empty(t, r.String(5, ""))
}

func TestIntnRange(t *testing.T) {
	r := New()
	for i := 0; i < 100; i++ {
		n := r.Intn(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
	assert.Zero(t, r.Intn(0))
}
