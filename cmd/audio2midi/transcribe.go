package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tiagoft/audio-to-midi/midifile"
	"github.com/tiagoft/audio-to-midi/transcribe"
)

var (
	transcribePreset  string
	transcribeBPM     float64
	transcribeVerbose bool
)

func init() {
	transcribeCmd.Flags().StringVar(&transcribePreset, "preset", "", "Preset JSON with parameter overrides")
	transcribeCmd.Flags().Float64Var(&transcribeBPM, "bpm", 0, "Tempo override in bpm (0 = estimate from audio)")
	transcribeCmd.Flags().BoolVarP(&transcribeVerbose, "verbose", "v", false, "Print pipeline stages")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <in.wav> <out.mid>",
	Short: "Transcribes a WAV recording to a MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranscribe(args[0], args[1])
	},
}

func runTranscribe(inPath, outPath string) error {
	params, presetBPM, err := loadParams(transcribePreset)
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}

	c, err := analyzeFile(inPath, params)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", inPath, err)
	}

	// Tempo precedence: flag, then preset, then estimator.
	bpm := transcribeBPM
	if bpm <= 0 {
		bpm = presetBPM
	}
	if bpm <= 0 {
		bpm = c.TempoBPM
	}

	var obs transcribe.Observer
	if transcribeVerbose {
		fmt.Printf("Analyzed %s: tuning=%+.3f semitones tempo=%.1f bpm onsets=%d\n",
			inPath, c.Tuning, c.TempoBPM, len(c.Onsets))
		obs = transcribe.ObserverFuncs{
			OnEvidenceBuilt: func(numFrames int) {
				fmt.Printf("Evidence built for %d frames\n", numFrames)
			},
			OnDecodingComplete: func(path []int) {
				fmt.Printf("Decoded %d frames\n", len(path))
			},
			OnSegmentationComplete: func(notes []transcribe.NoteEvent) {
				fmt.Printf("Segmented %d notes\n", len(notes))
			},
		}
	}

	notes, err := transcribe.Transcribe(c.Evidence, c.HopTime, params, obs)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	events, err := transcribe.ToMusicalTime(notes, bpm)
	if err != nil {
		return err
	}
	if err := midifile.WriteFile(outPath, events, bpm); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %d notes to %s (%.1f bpm)\n", len(events), outPath, bpm)
	return nil
}
