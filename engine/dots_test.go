package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDots(t *testing.T) {
	tests := []struct {
		n       int
		primary float64
		wantP   int
		wantS   int
	}{
		{1000, 0.53, 530, 470},
		{1000, 0.47, 470, 530},
		{1000, 0.65, 650, 350},
		{50, 0.53, 27, 23},
		{7, 0.5, 4, 3},
	}
	for _, tt := range tests {
		p, s := SplitDots(tt.n, tt.primary)
		assert.Equal(t, tt.wantP, p, "n=%d p=%g", tt.n, tt.primary)
		assert.Equal(t, tt.wantS, s, "n=%d p=%g", tt.n, tt.primary)
	}
}

func TestDotCloudKeepsColoursAcrossTicks(t *testing.T) {
	rng := newRand(5)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cloud := NewDotCloud(100, 530, 470, now, rng)

	p, s := cloud.Counts()
	require.Equal(t, 530, p)
	require.Equal(t, 470, s)

	colours := make([]Color, len(cloud.Dots))
	for i, d := range cloud.Dots {
		colours[i] = d.Color
	}
	for frame := 1; frame <= 200; frame++ {
		dots := cloud.Tick(now.Add(time.Duration(frame) * 16 * time.Millisecond))
		require.Len(t, dots, 1000)
		for i, d := range dots {
			require.Equal(t, colours[i], d.Color, "dot %d changed colour at frame %d", i, frame)
		}
	}
}

func TestDotCloudResamplesExpiredDots(t *testing.T) {
	rng := newRand(9)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cloud := NewDotCloud(100, 10, 10, now, rng)
	for _, d := range cloud.Dots {
		assert.GreaterOrEqual(t, d.Life, seconds(minDotLife))
		assert.Less(t, d.Life, seconds(maxDotLife))
	}

	cloud.Tick(now.Add(50 * time.Millisecond))
	for _, d := range cloud.Dots {
		assert.Equal(t, now, d.Born, "no dot lives less than %gs", minDotLife)
	}

	later := now.Add(time.Second)
	cloud.Tick(later)
	for _, d := range cloud.Dots {
		assert.Equal(t, later, d.Born)
	}
}

func TestSamplePositionInsideDisk(t *testing.T) {
	const radius = 100.0
	rng := newRand(11)
	var left, right int
	for i := 0; i < 10000; i++ {
		p := SamplePosition(rng, radius)
		r2 := float64(p.X)*float64(p.X) + float64(p.Y)*float64(p.Y)
		require.LessOrEqual(t, r2, radius*radius+1e-2)
		if p.X < 0 {
			left++
		} else {
			right++
		}
	}
	assert.InDelta(t, 5000, left, 300)
	assert.InDelta(t, 5000, right, 300)
}

func TestSamplePositionUniformInX(t *testing.T) {
	const radius = 100.0
	rng := newRand(13)
	var edge, centre int
	for i := 0; i < 20000; i++ {
		x := SamplePosition(rng, radius).X
		switch {
		case x > 80:
			edge++
		case x >= 0 && x < 20:
			centre++
		}
	}
	// both strips are a tenth of the diameter
	assert.InDelta(t, 2000, edge, 250)
	assert.InDelta(t, 2000, centre, 250)
}
