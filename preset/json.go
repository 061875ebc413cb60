package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

// File is the JSON schema for transcription presets. All fields are
// optional overrides applied on top of the defaults.
type File struct {
	NoteMin      *string  `json:"note_min"`
	NoteMax      *string  `json:"note_max"`
	PStayNote    *float64 `json:"p_stay_note"`
	PStaySilence *float64 `json:"p_stay_silence"`
	PitchAcc     *float64 `json:"pitch_acc"`
	VoicedAcc    *float64 `json:"voiced_acc"`
	OnsetAcc     *float64 `json:"onset_acc"`
	Spread       *float64 `json:"spread"`
	FrameLength  *int     `json:"frame_length"`
	HopLength    *int     `json:"hop_length"`
	BPM          *float64 `json:"bpm"`
}

// LoadJSON loads a preset JSON file and applies it on top of default
// params. The second return value is a tempo override in bpm, 0 when the
// preset leaves tempo to the estimator.
func LoadJSON(path string) (*transcribe.Params, float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, 0, err
	}

	p := transcribe.NewDefaultParams()
	bpm, err := ApplyFile(p, &f)
	if err != nil {
		return nil, 0, err
	}
	return p, bpm, nil
}

// ApplyFile applies a parsed preset file onto an existing params object and
// returns the tempo override (0 when absent).
func ApplyFile(dst *transcribe.Params, f *File) (float64, error) {
	if dst == nil {
		return 0, fmt.Errorf("nil destination params")
	}
	if f == nil {
		return 0, nil
	}

	if f.NoteMin != nil {
		if _, err := transcribe.ParseNote(*f.NoteMin); err != nil {
			return 0, fmt.Errorf("note_min: %w", err)
		}
		dst.NoteMin = *f.NoteMin
	}
	if f.NoteMax != nil {
		if _, err := transcribe.ParseNote(*f.NoteMax); err != nil {
			return 0, fmt.Errorf("note_max: %w", err)
		}
		dst.NoteMax = *f.NoteMax
	}
	if _, err := transcribe.ParseNoteRange(dst.NoteMin, dst.NoteMax); err != nil {
		return 0, err
	}

	for _, ov := range []struct {
		name string
		src  *float64
		dst  *float64
		open bool // (0,1) rather than [0,1]
	}{
		{"p_stay_note", f.PStayNote, &dst.PStayNote, true},
		{"p_stay_silence", f.PStaySilence, &dst.PStaySilence, true},
		{"pitch_acc", f.PitchAcc, &dst.PitchAcc, false},
		{"voiced_acc", f.VoicedAcc, &dst.VoicedAcc, false},
		{"onset_acc", f.OnsetAcc, &dst.OnsetAcc, false},
		{"spread", f.Spread, &dst.Spread, false},
	} {
		if ov.src == nil {
			continue
		}
		v := *ov.src
		if ov.open && (v <= 0 || v >= 1) {
			return 0, fmt.Errorf("%s must be in (0,1), got %g", ov.name, v)
		}
		if !ov.open && (v < 0 || v > 1) {
			return 0, fmt.Errorf("%s must be in [0,1], got %g", ov.name, v)
		}
		*ov.dst = v
	}

	if f.FrameLength != nil {
		if *f.FrameLength < 2 {
			return 0, fmt.Errorf("frame_length must be >= 2, got %d", *f.FrameLength)
		}
		dst.FrameLength = *f.FrameLength
	}
	if f.HopLength != nil {
		if *f.HopLength < 1 {
			return 0, fmt.Errorf("hop_length must be >= 1, got %d", *f.HopLength)
		}
		dst.HopLength = *f.HopLength
	}

	var bpm float64
	if f.BPM != nil {
		if *f.BPM <= 0 {
			return 0, fmt.Errorf("bpm must be > 0, got %g", *f.BPM)
		}
		bpm = *f.BPM
	}
	return bpm, nil
}

// SaveJSON writes the full parameter set (and optional tempo override) as a
// preset file, the shape the fit tool emits.
func SaveJSON(path string, p *transcribe.Params, bpm float64) error {
	f := File{
		NoteMin:      &p.NoteMin,
		NoteMax:      &p.NoteMax,
		PStayNote:    &p.PStayNote,
		PStaySilence: &p.PStaySilence,
		PitchAcc:     &p.PitchAcc,
		VoicedAcc:    &p.VoicedAcc,
		OnsetAcc:     &p.OnsetAcc,
		Spread:       &p.Spread,
		FrameLength:  &p.FrameLength,
		HopLength:    &p.HopLength,
	}
	if bpm > 0 {
		f.BPM = &bpm
	}
	b, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
