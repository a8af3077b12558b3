package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/paddock/internal/config"
)

func shortTrack() config.TrackConfig {
	return config.TrackConfig{Length: 200, SegmentLength: 50, TimeStep: 0.5, MaxTicks: 1000, FieldSize: 2}
}

func TestGenerateIsReproducibleForSeed(t *testing.T) {
	sim := config.DefaultSimulation()

	first := Generate(42, shortTrack(), sim.Terrain)
	second := Generate(42, shortTrack(), sim.Terrain)

	require.Len(t, first.Segments, 4)
	assert.Equal(t, first.Types(), second.Types())
	assert.Equal(t, first.Segments, second.Segments)
}

func TestGenerateCoversTrackWithRoundUp(t *testing.T) {
	sim := config.DefaultSimulation()
	track := config.TrackConfig{Length: 210, SegmentLength: 50}

	tr := Generate(7, track, sim.Terrain)
	require.Len(t, tr.Segments, 5)

	// Remainder belongs to the final segment
	assert.Equal(t, 4, tr.IndexAt(205))
	assert.Equal(t, 4, tr.IndexAt(210))
	assert.Equal(t, 4, tr.IndexAt(10_000))
	assert.Equal(t, 0, tr.IndexAt(0))
	assert.Equal(t, 1, tr.IndexAt(50))
}

func TestGenerateWithoutPatchesIsNeutral(t *testing.T) {
	sim := config.DefaultSimulation()
	sim.Terrain.Patches = 0

	tr := Generate(99, sim.Track, sim.Terrain)
	for _, s := range tr.Segments {
		assert.Equal(t, Type("grass"), s.Type)
		assert.Equal(t, 1.0, s.Modifiers.SpeedMult)
	}
}

func TestGeneratePatchesUseConfiguredTypes(t *testing.T) {
	sim := config.DefaultSimulation()
	allowed := map[Type]bool{"grass": true, "mud": true, "sand": true, "incline": true, "gravel": true}

	for seed := int64(0); seed < 50; seed++ {
		tr := Generate(seed, sim.Track, sim.Terrain)
		require.Len(t, tr.Segments, sim.Track.SegmentCount())
		for _, s := range tr.Segments {
			assert.True(t, allowed[s.Type], "unexpected terrain %q", s.Type)
			assert.Greater(t, s.Modifiers.SpeedMult, 0.0)
		}
	}
}

func TestGenerateSingleSegmentTrack(t *testing.T) {
	sim := config.DefaultSimulation()
	tr := Generate(3, config.TrackConfig{Length: 40, SegmentLength: 50}, sim.Terrain)
	assert.Len(t, tr.Segments, 1)
}

func TestAverages(t *testing.T) {
	segments := []Segment{
		{Type: "grass", Modifiers: Modifiers{SpeedMult: 1.0, StaminaDrainMult: 1.0}},
		{Type: "mud", Modifiers: Modifiers{SpeedMult: 0.8, StaminaDrainMult: 1.5}},
	}
	speed, drain := Averages(segments)
	assert.InDelta(t, 0.9, speed, 1e-9)
	assert.InDelta(t, 1.25, drain, 1e-9)

	speed, drain = Averages(nil)
	assert.Equal(t, 1.0, speed)
	assert.Equal(t, 1.0, drain)
}
