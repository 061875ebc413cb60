package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

var probePreset string

func init() {
	probeCmd.Flags().StringVar(&probePreset, "preset", "", "Preset JSON with parameter overrides")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe <in.wav>",
	Short: "Prints what the detectors hear without writing a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(args[0])
	},
}

func runProbe(inPath string) error {
	params, _, err := loadParams(probePreset)
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}

	c, err := analyzeFile(inPath, params)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", inPath, err)
	}

	voiced := 0
	for _, v := range c.Voiced {
		if v {
			voiced++
		}
	}
	voicedPct := 0.0
	if len(c.Voiced) > 0 {
		voicedPct = 100.0 * float64(voiced) / float64(len(c.Voiced))
	}

	fmt.Printf("File: %s\n", inPath)
	fmt.Printf("Frames: %d (%.1f%% voiced)\n", len(c.Evidence), voicedPct)
	fmt.Printf("Tuning: %+.3f semitones\n", c.Tuning)
	fmt.Printf("Tempo: %.1f bpm\n", c.TempoBPM)
	fmt.Printf("Onsets: %d\n", len(c.Onsets))
	for _, f := range c.Onsets {
		fmt.Printf("  onset at %.3fs\n", float64(f)*c.HopTime)
	}

	notes, err := transcribe.Transcribe(c.Evidence, c.HopTime, params, nil)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	fmt.Printf("Notes: %d\n", len(notes))
	for _, n := range notes {
		fmt.Printf("  %7.3fs - %7.3fs  %-4s (%d)\n", n.OnsetSec, n.OffsetSec, n.Name, n.Pitch)
	}
	return nil
}
