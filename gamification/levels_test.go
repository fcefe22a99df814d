package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{"negative points", -50, 1},
		{"zero points", 0, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"mid level 3", 300, 3},
		{"exactly level 5", 800, 5},
		{"exactly max level", 450000, 20},
		{"far past max level", 10000000, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForPoints(tt.points))
		})
	}
}

func TestLevelForPoints_Monotonic(t *testing.T) {
	prev := 1
	for points := 0; points <= 500000; points += 250 {
		level := LevelForPoints(points)
		assert.GreaterOrEqual(t, level, prev, "level dropped at %d points", points)
		assert.GreaterOrEqual(t, level, 1)
		assert.LessOrEqual(t, level, MaxLevel)
		prev = level
	}
}

func TestPointsForLevel(t *testing.T) {
	assert.Equal(t, 0, PointsForLevel(0))
	assert.Equal(t, 0, PointsForLevel(1))
	assert.Equal(t, 100, PointsForLevel(2))
	assert.Equal(t, 450000, PointsForLevel(20))
	// Past the top level there is no next threshold; it clamps.
	assert.Equal(t, 450000, PointsForLevel(21))
	assert.Equal(t, 450000, PointsForLevel(99))
}

func TestPointsForLevel_RoundTrips(t *testing.T) {
	for level := 2; level <= MaxLevel; level++ {
		threshold := PointsForLevel(level)
		assert.Equal(t, level, LevelForPoints(threshold), "threshold for level %d", level)
		assert.Equal(t, level-1, LevelForPoints(threshold-1), "just below level %d", level)
	}
}

func TestHybridLevel(t *testing.T) {
	tests := []struct {
		name    string
		points  int
		learned int
		streak  int
		want    int
	}{
		{"fresh account", 0, 0, 0, 1},
		{"points only", 800, 0, 0, 5},
		{"one flashcard bonus", 800, 50, 0, 6},
		{"flashcard bonus capped", 800, 1000, 0, 7},
		{"one streak bonus", 800, 0, 7, 6},
		{"streak bonus capped", 800, 0, 700, 8},
		{"both bonuses capped", 800, 1000, 700, 10},
		{"bonuses cannot exceed max level", 450000, 1000, 700, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HybridLevel(tt.points, tt.learned, tt.streak))
		})
	}
}

func TestHybridLevel_NeverExceedsMax(t *testing.T) {
	for points := 0; points <= 1000000; points += 50000 {
		level := HybridLevel(points, 10000, 10000)
		assert.LessOrEqual(t, level, MaxLevel)
		assert.GreaterOrEqual(t, level, 1)
	}
}
