package main

import (
	"errors"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tiagoft/audio-to-midi/analysis"
)

// readReferenceNotes loads the expected note list from a standard MIDI file.
// The second return value is the file's first tempo in bpm, 0 when absent.
func readReferenceNotes(path string) ([]analysis.Note, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return parseReferenceNotes(f)
}

func parseReferenceNotes(r io.Reader) ([]analysis.Note, float64, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, 0, err
	}

	ticksPerBeat := 960.0
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ticksPerBeat = float64(mt.Resolution())
	}

	var bpm float64
	var notes []analysis.Note
	for _, track := range s.Tracks {
		var absTicks uint64
		open := map[uint8]float64{}
		for _, ev := range track {
			absTicks += uint64(ev.Delta)
			beat := float64(absTicks) / ticksPerBeat
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				open[key] = beat
			case ev.Message.GetNoteEnd(&ch, &key):
				if on, ok := open[key]; ok {
					notes = append(notes, analysis.Note{
						Onset:    on,
						Duration: beat - on,
						Pitch:    int(key),
					})
					delete(open, key)
				}
			default:
				var t float64
				if ev.Message.GetMetaTempo(&t) && bpm == 0 {
					bpm = t
				}
			}
		}
	}
	if len(notes) == 0 {
		return nil, 0, errors.New("reference contains no notes")
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Onset < notes[j].Onset
	})
	return notes, bpm, nil
}
