package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audio2midi",
	Short: "Monophonic audio to MIDI transcription",
	Long:  `Transcribes monophonic WAV recordings into standard MIDI files.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
