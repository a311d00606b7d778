package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeRatioPercent(t *testing.T) {
	tests := []struct {
		name     string
		likes    int64
		dislikes int64
		expected float64
	}{
		{"no votes", 0, 0, 0},
		{"all likes", 5, 0, 100},
		{"all dislikes", 0, 5, 0},
		{"two thirds", 2, 1, 66.7},
		{"one third", 1, 2, 33.3},
		{"half", 1, 1, 50},
		{"one of seven", 1, 6, 14.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LikeRatioPercent(tt.likes, tt.dislikes))
		})
	}
}

func TestClampStars(t *testing.T) {
	assert.Equal(t, 1, ClampStars(-3))
	assert.Equal(t, 1, ClampStars(0))
	assert.Equal(t, 1, ClampStars(1))
	assert.Equal(t, 3, ClampStars(3))
	assert.Equal(t, 5, ClampStars(5))
	assert.Equal(t, 5, ClampStars(9))
}
