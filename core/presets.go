package orchestration

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
)

// VoiceStyle selects the synthesis preset used to speak a response.
type VoiceStyle string

const (
	StyleExcited      VoiceStyle = "excited"
	StyleGentle       VoiceStyle = "gentle"
	StyleProfessional VoiceStyle = "professional"
	StyleFriendly     VoiceStyle = "friendly"
	StyleNeutral      VoiceStyle = "neutral"
)

func styleForEmotion(emotion Emotion) VoiceStyle {
	switch emotion {
	case EmotionExcited:
		return StyleExcited
	case EmotionGentle:
		return StyleGentle
	case EmotionProfessional:
		return StyleProfessional
	case EmotionNeutral:
		return StyleNeutral
	}
	return StyleFriendly
}

// VoicePreset bundles the synthesis parameters for one voice style. Remote
// providers consume the voice settings block; the local engine consumes the
// prosody multipliers, both scaled around 1.0.
type VoicePreset struct {
	Style   VoiceStyle `json:"style" jsonschema:"required"`
	VoiceID string     `json:"voiceId,omitempty"`
	ModelID string     `json:"modelId,omitempty"`

	Stability       float64 `json:"stability" jsonschema:"minimum=0,maximum=1"`
	SimilarityBoost float64 `json:"similarityBoost" jsonschema:"minimum=0,maximum=1"`
	Expressiveness  float64 `json:"expressiveness" jsonschema:"minimum=0,maximum=1"`
	SpeakerBoost    bool    `json:"speakerBoost,omitempty"`

	Rate   float64 `json:"rate,omitempty" jsonschema:"minimum=0.5,maximum=2"`
	Pitch  float64 `json:"pitch,omitempty" jsonschema:"minimum=0.5,maximum=2"`
	Volume float64 `json:"volume,omitempty" jsonschema:"minimum=0,maximum=2"`
}

func defaultPresets() []VoicePreset {
	return []VoicePreset{
		{Style: StyleExcited, Stability: 0.3, SimilarityBoost: 0.8, Expressiveness: 0.8, SpeakerBoost: true, Rate: 1.15, Pitch: 1.15, Volume: 1.0},
		{Style: StyleGentle, Stability: 0.8, SimilarityBoost: 0.7, Expressiveness: 0.2, Rate: 0.85, Pitch: 0.95, Volume: 0.85},
		{Style: StyleProfessional, Stability: 0.7, SimilarityBoost: 0.75, Expressiveness: 0.3, Rate: 1.0, Pitch: 1.0, Volume: 1.0},
		{Style: StyleFriendly, Stability: 0.5, SimilarityBoost: 0.75, Expressiveness: 0.5, Rate: 1.0, Pitch: 1.05, Volume: 1.0},
		{Style: StyleNeutral, Stability: 0.6, SimilarityBoost: 0.75, Expressiveness: 0.4, Rate: 1.0, Pitch: 1.0, Volume: 1.0},
	}
}

// presetCatalogue holds the active preset table. Lookups return deep copies
// so callers can't mutate the catalogue through a returned preset.
type presetCatalogue struct {
	mu      sync.RWMutex
	presets map[VoiceStyle]VoicePreset
}

func newPresetCatalogue() *presetCatalogue {
	catalogue := &presetCatalogue{presets: map[VoiceStyle]VoicePreset{}}
	catalogue.merge(defaultPresets())
	return catalogue
}

func (c *presetCatalogue) merge(presets []VoicePreset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, preset := range presets {
		c.presets[preset.Style] = preset
	}
}

// PresetFor returns the preset for a style, falling back to the friendly
// preset for styles the catalogue doesn't know.
func (c *presetCatalogue) PresetFor(style VoiceStyle) VoicePreset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	preset, ok := c.presets[style]
	if !ok {
		preset = c.presets[StyleFriendly]
	}

	var copied VoicePreset
	if err := copier.CopyWithOption(&copied, &preset, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid to/from types, which is impossible
		// here, but return something sane anyway.
		return preset
	}
	return copied
}

func (c *presetCatalogue) List() []VoicePreset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	presets := make([]VoicePreset, 0, len(c.presets))
	for _, style := range []VoiceStyle{StyleExcited, StyleGentle, StyleProfessional, StyleFriendly, StyleNeutral} {
		if preset, ok := c.presets[style]; ok {
			presets = append(presets, preset)
		}
	}
	return presets
}

// LoadPresetFile reads preset overrides from a JSON file. Entries replace
// the built-in preset for the same style; styles not present in the file
// keep their defaults.
func LoadPresetFile(path string) ([]VoicePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var presets []VoicePreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	for i, preset := range presets {
		if err := validatePreset(preset); err != nil {
			return nil, fmt.Errorf("preset %d invalid: %w", i, err)
		}
		presets[i] = preset
	}
	return presets, nil
}

func validatePreset(preset VoicePreset) error {
	switch preset.Style {
	case StyleExcited, StyleGentle, StyleProfessional, StyleFriendly, StyleNeutral:
	default:
		return fmt.Errorf("unknown style %q", preset.Style)
	}

	for _, bound := range []struct {
		name      string
		value     float64
		low, high float64
	}{
		{"stability", preset.Stability, 0, 1},
		{"similarityBoost", preset.SimilarityBoost, 0, 1},
		{"expressiveness", preset.Expressiveness, 0, 1},
	} {
		if bound.value < bound.low || bound.value > bound.high {
			return fmt.Errorf("%s %v out of range [%v, %v]", bound.name, bound.value, bound.low, bound.high)
		}
	}
	return nil
}

// PresetSchema returns the JSON schema describing a preset file, for
// editors and tooling that generate or validate overrides.
func PresetSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&VoicePreset{})
}
