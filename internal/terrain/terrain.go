// Package terrain generates the seeded segment layout of a race track.
package terrain

import (
	"math/rand"
	"strings"

	"github.com/yourusername/paddock/internal/config"
)

// Type is a terrain surface name such as grass or mud
type Type string

// Modifiers scale speed, stamina drain and injury risk on a segment
type Modifiers struct {
	SpeedMult        float64 `json:"speed_mult"`
	StaminaDrainMult float64 `json:"stamina_drain_mult"`
	InjuryChanceBase float64 `json:"injury_chance_base"`
}

// Segment is one fixed-length stretch of track
type Segment struct {
	Type      Type      `json:"type"`
	Modifiers Modifiers `json:"modifiers"`
}

// Track is the immutable, ordered segment sequence of one race
type Track struct {
	Segments      []Segment
	Length        float64
	SegmentLength float64
}

// Generate builds the track for a seed. The same seed always yields the same
// sequence.
func Generate(seed int64, track config.TrackConfig, cfg config.TerrainConfig) Track {
	return GenerateFrom(rand.New(rand.NewSource(seed)), track, cfg)
}

// GenerateFrom builds the track from an already seeded stream, so a race can
// thread one stream through terrain and injury rolls.
func GenerateFrom(rng *rand.Rand, track config.TrackConfig, cfg config.TerrainConfig) Track {
	count := track.SegmentCount()
	neutral := segmentOf(Type(cfg.Neutral), cfg)

	segments := make([]Segment, count)
	for i := range segments {
		segments[i] = neutral
	}

	if len(cfg.PatchTypes) > 0 {
		for p := 0; p < cfg.Patches; p++ {
			kind := Type(cfg.PatchTypes[rng.Intn(len(cfg.PatchTypes))])
			length := cfg.PatchMinLength + rng.Intn(cfg.PatchMaxLength-cfg.PatchMinLength+1)
			if length > count {
				length = count
			}
			// Overlapping patches overwrite earlier ones.
			start := 0
			if span := count - length; span > 0 {
				start = rng.Intn(span)
			}
			patch := segmentOf(kind, cfg)
			for i := 0; i < length; i++ {
				segments[start+i] = patch
			}
		}
	}

	return Track{
		Segments:      segments,
		Length:        track.Length,
		SegmentLength: track.SegmentLength,
	}
}

func segmentOf(kind Type, cfg config.TerrainConfig) Segment {
	mod := cfg.Modifiers[strings.ToLower(string(kind))]
	return Segment{
		Type: kind,
		Modifiers: Modifiers{
			SpeedMult:        mod.Speed,
			StaminaDrainMult: mod.StaminaDrain,
			InjuryChanceBase: mod.InjuryChance,
		},
	}
}

// IndexAt maps a track position to its segment index; positions at or past the
// last boundary belong to the final segment.
func (t Track) IndexAt(position float64) int {
	if len(t.Segments) == 0 || t.SegmentLength <= 0 || position <= 0 {
		return 0
	}
	idx := int(position / t.SegmentLength)
	if idx >= len(t.Segments) {
		idx = len(t.Segments) - 1
	}
	return idx
}

// SegmentAt returns the segment covering a position
func (t Track) SegmentAt(position float64) Segment {
	return t.Segments[t.IndexAt(position)]
}

// Types returns the ordered segment types
func (t Track) Types() []Type {
	types := make([]Type, len(t.Segments))
	for i, s := range t.Segments {
		types[i] = s.Type
	}
	return types
}

// Averages returns the mean speed and stamina drain multipliers across all
// segments, or neutral 1.0 values for an empty track.
func Averages(segments []Segment) (speed, drain float64) {
	if len(segments) == 0 {
		return 1.0, 1.0
	}
	for _, s := range segments {
		speed += s.Modifiers.SpeedMult
		drain += s.Modifiers.StaminaDrainMult
	}
	n := float64(len(segments))
	return speed / n, drain / n
}
