package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesOverrides(t *testing.T) {
	path := writePreset(t, `{
  "note_min": "C2",
  "note_max": "C6",
  "p_stay_note": 0.85,
  "pitch_acc": 0.95,
  "hop_length": 256,
  "bpm": 96
}`)

	p, bpm, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.NoteMin != "C2" || p.NoteMax != "C6" {
		t.Fatalf("range mismatch: %s..%s", p.NoteMin, p.NoteMax)
	}
	if p.PStayNote != 0.85 || p.PitchAcc != 0.95 {
		t.Fatalf("probability overrides not applied: %+v", p)
	}
	if p.PStaySilence != 0.7 {
		t.Fatalf("untouched field changed: p_stay_silence=%g", p.PStaySilence)
	}
	if p.HopLength != 256 || p.FrameLength != 2048 {
		t.Fatalf("analysis window mismatch: frame=%d hop=%d", p.FrameLength, p.HopLength)
	}
	if bpm != 96 {
		t.Fatalf("bpm override %g, want 96", bpm)
	}
}

func TestLoadJSONNoBPMOverride(t *testing.T) {
	path := writePreset(t, `{"pitch_acc": 0.8}`)
	_, bpm, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if bpm != 0 {
		t.Fatalf("bpm %g, want 0 (estimator decides)", bpm)
	}
}

func TestLoadJSONRejectsInvalidValues(t *testing.T) {
	cases := []string{
		`{"note_min": "X2"}`,
		`{"note_min": "E5", "note_max": "A2"}`,
		`{"p_stay_note": 1.0}`,
		`{"p_stay_silence": 0}`,
		`{"pitch_acc": 1.5}`,
		`{"spread": -0.1}`,
		`{"frame_length": 1}`,
		`{"hop_length": 0}`,
		`{"bpm": -10}`,
	}
	for _, content := range cases {
		path := writePreset(t, content)
		if _, _, err := LoadJSON(path); err == nil {
			t.Fatalf("expected error for %s", content)
		}
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	p := transcribe.NewDefaultParams()
	p.PitchAcc = 0.87
	p.NoteMax = "C6"
	path := filepath.Join(t.TempDir(), "out.json")
	if err := SaveJSON(path, p, 110); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	back, bpm, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if *back != *p {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, p)
	}
	if bpm != 110 {
		t.Fatalf("bpm %g, want 110", bpm)
	}
}
