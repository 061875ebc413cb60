// Package midifile serializes transcribed note events as a standard MIDI
// file. The transcription core is agnostic to the container format; all
// byte-level framing is delegated to gomidi's smf writer.
package midifile

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tiagoft/audio-to-midi/transcribe"
)

// DefaultResolution is the tick resolution per quarter note.
const DefaultResolution = 960

// Build assembles a single-track SMF from note events positioned in beats.
func Build(events []transcribe.MidiNoteEvent, bpm float64) (*smf.SMF, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: bpm=%g", transcribe.ErrInvalidTempo, bpm)
	}
	for i, ev := range events {
		if ev.Pitch < 0 || ev.Pitch > 127 {
			return nil, fmt.Errorf("event %d: pitch %d outside MIDI range", i, ev.Pitch)
		}
		if ev.DurationBeats < 0 || ev.StartBeat < 0 {
			return nil, fmt.Errorf("event %d: negative timing (start %g, duration %g)",
				i, ev.StartBeat, ev.DurationBeats)
		}
	}

	type edge struct {
		tick uint32
		on   bool
		ev   transcribe.MidiNoteEvent
	}
	edges := make([]edge, 0, 2*len(events))
	for _, ev := range events {
		start := beatToTick(ev.StartBeat)
		end := beatToTick(ev.StartBeat + ev.DurationBeats)
		if end <= start {
			end = start + 1 // zero-length notes would be dropped by players
		}
		edges = append(edges, edge{tick: start, on: true, ev: ev})
		edges = append(edges, edge{tick: end, on: false, ev: ev})
	}
	// Note-offs first on tick collisions so a retriggered pitch is
	// released before it is struck again.
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].tick != edges[j].tick {
			return edges[i].tick < edges[j].tick
		}
		return !edges[i].on && edges[j].on
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))

	var cursor uint32
	for _, e := range edges {
		delta := e.tick - cursor
		cursor = e.tick
		if e.on {
			tr.Add(delta, midi.NoteOn(0, uint8(e.ev.Pitch), uint8(e.ev.Velocity)))
		} else {
			tr.Add(delta, midi.NoteOff(0, uint8(e.ev.Pitch)))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(DefaultResolution)
	if err := s.Add(tr); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteFile builds the SMF and writes it to disk.
func WriteFile(path string, events []transcribe.MidiNoteEvent, bpm float64) error {
	s, err := Build(events, bpm)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.WriteTo(f)
	return err
}

func beatToTick(beat float64) uint32 {
	return uint32(math.Round(beat * DefaultResolution))
}
