package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedHashFallback(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"pizzaz.js", "pizzaz-2d2b.js", true},
		{"pizzaz-carousel.css", "pizzaz-carousel-2d2b.css", true},
		{"nested/pizzaz.js", "nested/pizzaz-2d2b.js", true},
		{"pizzaz-abcd.js", "", false},
		{"pizzaz-1a2b3c.css", "", false},
		{"README", "", false},
	}
	for _, tt := range tests {
		got, ok := FixedHashFallback{}.Candidate(tt.path)
		assert.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestFixedHashFallback_CustomHash(t *testing.T) {
	got, ok := FixedHashFallback{Hash: "9f3e"}.Candidate("pizzaz.js")
	assert.True(t, ok)
	assert.Equal(t, "pizzaz-9f3e.js", got)
}

func TestHasHashSuffix(t *testing.T) {
	assert.True(t, HasHashSuffix("pizzaz-2d2b.js"))
	assert.True(t, HasHashSuffix("widget-abcd1234.css"))
	assert.False(t, HasHashSuffix("pizzaz.js"))
	assert.False(t, HasHashSuffix("pizzaz-abc.js"))
	// Only lowercase hashes count
	assert.False(t, HasHashSuffix("pizzaz-ABCD.js"))
	// "carousel" is a word, but it still looks like a hash
	assert.True(t, HasHashSuffix("pizzaz-carousel.js"))
}

func TestNoFallback(t *testing.T) {
	_, ok := NoFallback{}.Candidate("pizzaz.js")
	assert.False(t, ok)
}
