package orchestration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPresetForReturnsIndependentCopies(t *testing.T) {
	catalogue := newPresetCatalogue()

	preset := catalogue.PresetFor(StyleExcited)
	preset.Stability = 0.99
	preset.VoiceID = "mutated"

	if again := catalogue.PresetFor(StyleExcited); again.Stability == 0.99 || again.VoiceID == "mutated" {
		t.Fatalf("mutating a returned preset leaked into the catalogue: %+v", again)
	}
}

func TestPresetForUnknownStyleFallsBackToFriendly(t *testing.T) {
	catalogue := newPresetCatalogue()

	if got := catalogue.PresetFor(VoiceStyle("robotic")); got.Style != StyleFriendly {
		t.Fatalf("expected friendly fallback, got %q", got.Style)
	}
}

func TestLoadPresetFileOverridesSingleStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	contents := `[{"style": "gentle", "voiceId": "voice-g", "stability": 0.9, "similarityBoost": 0.6, "expressiveness": 0.1, "rate": 0.8}]`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("expected preset file to load, got %v", err)
	}

	catalogue := newPresetCatalogue()
	catalogue.merge(presets)

	gentle := catalogue.PresetFor(StyleGentle)
	if gentle.VoiceID != "voice-g" || gentle.Stability != 0.9 {
		t.Fatalf("expected gentle preset overridden, got %+v", gentle)
	}
	if excited := catalogue.PresetFor(StyleExcited); excited.VoiceID != "" {
		t.Fatalf("expected untouched styles to keep defaults, got %+v", excited)
	}
}

func TestLoadPresetFileRejectsOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	contents := `[{"style": "neutral", "stability": 1.5}]`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPresetFile(path); err == nil {
		t.Fatalf("expected an error for stability out of range")
	}
}

func TestLoadPresetFileRejectsUnknownStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	contents := `[{"style": "shouty", "stability": 0.5}]`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPresetFile(path); err == nil {
		t.Fatalf("expected an error for an unknown style")
	}
}

func TestPresetsListsCatalogueOrderedByStyle(t *testing.T) {
	orchestrator := NewOrchestrator()

	presets := orchestrator.Presets()
	want := []VoiceStyle{StyleExcited, StyleGentle, StyleProfessional, StyleFriendly, StyleNeutral}
	if len(presets) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(presets))
	}
	for i, style := range want {
		if presets[i].Style != style {
			t.Fatalf("expected preset %d to be %q, got %q", i, style, presets[i].Style)
		}
	}
}

func TestSelectPresetAppliesFromNextReply(t *testing.T) {
	orchestrator := NewOrchestrator()

	custom := orchestrator.presets.PresetFor(StyleGentle)
	custom.Rate = 0.7
	custom.Stability = 0.9
	if err := orchestrator.SelectPreset(custom); err != nil {
		t.Fatalf("expected a valid preset selection to succeed, got %v", err)
	}

	gentle := orchestrator.presets.PresetFor(StyleGentle)
	if gentle.Rate != 0.7 || gentle.Stability != 0.9 {
		t.Fatalf("expected the selected preset active in the catalogue, got %+v", gentle)
	}
	if friendly := orchestrator.presets.PresetFor(StyleFriendly); friendly.Rate == 0.7 {
		t.Fatalf("expected other styles untouched, got %+v", friendly)
	}
}

func TestSelectPresetRejectsInvalidPresets(t *testing.T) {
	orchestrator := NewOrchestrator()

	if err := orchestrator.SelectPreset(VoicePreset{Style: "spooky"}); err == nil {
		t.Fatalf("expected an unknown style rejected")
	}
	if err := orchestrator.SelectPreset(VoicePreset{Style: StyleNeutral, Stability: 1.5}); err == nil {
		t.Fatalf("expected out-of-range stability rejected")
	}
}

func TestPresetSchemaDescribesStyles(t *testing.T) {
	schema := PresetSchema()
	if schema == nil {
		t.Fatal("expected a schema")
	}
	if _, ok := schema.Properties.Get("style"); !ok {
		t.Fatalf("expected a style property in the schema")
	}
}
