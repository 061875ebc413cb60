package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/mayfly"

	"github.com/tiagoft/audio-to-midi/analysis"
	"github.com/tiagoft/audio-to-midi/analyze"
	"github.com/tiagoft/audio-to-midi/internal/wavio"
	"github.com/tiagoft/audio-to-midi/preset"
	"github.com/tiagoft/audio-to-midi/transcribe"
)

type fitConfig struct {
	evidence         []transcribe.FrameEvidence
	hopTime          float64
	bpm              float64
	reference        []analysis.Note
	baseParams       *transcribe.Params
	defs             []knobDef
	initCandidate    candidate
	seed             int64
	timeBudget       float64
	maxEvals         int
	reportEvery      int
	mayflyVariant    string
	mayflyPop        int
	mayflyRoundEvals int
	workers          int
}

type fitResult struct {
	best        candidate
	bestMetrics analysis.Metrics
	evals       int
	elapsed     float64
}

type fitReport struct {
	Input        string             `json:"input"`
	Reference    string             `json:"reference"`
	OutputPreset string             `json:"output_preset"`
	Variant      string             `json:"variant"`
	BPM          float64            `json:"bpm"`
	Evaluations  int                `json:"evaluations"`
	ElapsedSec   float64            `json:"elapsed_seconds"`
	BestScore    float64            `json:"best_score"`
	BestKnobs    map[string]float64 `json:"best_knobs"`
	BestMetrics  analysis.Metrics   `json:"best_metrics"`
}

func main() {
	inputPath := flag.String("input", "", "Input WAV to transcribe during fitting")
	referencePath := flag.String("reference", "", "Reference MIDI with the expected notes")
	presetPath := flag.String("preset", "", "Base preset JSON path (defaults when empty)")
	outputPreset := flag.String("output-preset", "fitted.json", "Path to write the best fitted preset JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output-preset>.report.json)")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 50, "Print progress every N evaluations")
	workers := flag.String("workers", "1", "Parallel workers running independent Mayfly rounds (number or 'auto')")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Parse()

	if *inputPath == "" {
		die("--input is required")
	}
	if *referencePath == "" {
		die("--reference is required")
	}
	if *outputPreset == "" {
		die("output-preset must not be empty")
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *reportEvery < 1 {
		*reportEvery = 1
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}
	parsedWorkers, err := parseWorkers(*workers)
	if err != nil {
		die("invalid workers value: %v", err)
	}

	baseParams := transcribe.NewDefaultParams()
	var presetBPM float64
	if *presetPath != "" {
		baseParams, presetBPM, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("failed to load preset: %v", err)
		}
	}

	samples, err := wavio.ReadMonoAt(*inputPath, wavio.DefaultAnalysisRate)
	if err != nil {
		die("failed to read input: %v", err)
	}

	refNotes, refBPM, err := readReferenceNotes(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}

	evidence, hopTime, estBPM, err := buildEvidence(samples, wavio.DefaultAnalysisRate, baseParams)
	if err != nil {
		die("analysis failed: %v", err)
	}

	// Tempo precedence: reference MIDI, then preset, then estimator.
	bpm := refBPM
	if bpm <= 0 {
		bpm = presetBPM
	}
	if bpm <= 0 {
		bpm = estBPM
	}

	defs := knobDefs()
	cfg := &fitConfig{
		evidence:         evidence,
		hopTime:          hopTime,
		bpm:              bpm,
		reference:        refNotes,
		baseParams:       baseParams,
		defs:             defs,
		initCandidate:    initCandidate(baseParams, defs),
		seed:             *seed,
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		mayflyVariant:    strings.ToLower(*mayflyVariant),
		mayflyPop:        *mayflyPop,
		mayflyRoundEvals: *mayflyRoundEvals,
		workers:          parsedWorkers,
	}

	fmt.Printf("Fitting %d reference notes over %d frames bpm=%.1f\n",
		len(refNotes), len(evidence), bpm)

	result, err := runFit(cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}

	bestParams := applyCandidate(baseParams, defs, result.best)
	if err := preset.SaveJSON(*outputPreset, bestParams, bpm); err != nil {
		die("failed to write preset: %v", err)
	}

	if *reportPath == "" {
		*reportPath = *outputPreset + ".report.json"
	}
	report := fitReport{
		Input:        *inputPath,
		Reference:    *referencePath,
		OutputPreset: *outputPreset,
		Variant:      cfg.mayflyVariant,
		BPM:          bpm,
		Evaluations:  result.evals,
		ElapsedSec:   result.elapsed,
		BestScore:    result.bestMetrics.Score,
		BestKnobs:    knobMap(defs, result.best),
		BestMetrics:  result.bestMetrics,
	}
	if err := writeJSON(*reportPath, report); err != nil {
		die("failed to write report: %v", err)
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best_score=%.4f similarity=%.2f%% variant=%s\n",
		result.evals, result.elapsed, result.bestMetrics.Score,
		result.bestMetrics.Similarity*100.0, cfg.mayflyVariant)
}

// buildEvidence runs the detector stages once; the optimizer only moves
// decoder parameters, so the per-frame evidence is fixed for the whole fit.
func buildEvidence(samples []float64, sampleRate int, p *transcribe.Params) ([]transcribe.FrameEvidence, float64, float64, error) {
	r, err := p.Range()
	if err != nil {
		return nil, 0, 0, err
	}

	cfg := analyze.DefaultPitchConfig(sampleRate,
		analyze.MidiToHz(float64(r.Min)), analyze.MidiToHz(float64(r.Max)))
	cfg.FrameLength = p.FrameLength
	cfg.HopLength = p.HopLength

	hz, voiced, err := analyze.EstimatePitch(samples, cfg)
	if err != nil {
		return nil, 0, 0, err
	}
	onsets, err := analyze.DetectOnsets(samples, sampleRate, p.FrameLength, p.HopLength)
	if err != nil {
		return nil, 0, 0, err
	}
	tuning := analyze.EstimateTuning(hz, voiced)
	evidence := analyze.ContourToEvidence(hz, voiced, onsets, tuning)

	env, err := analyze.OnsetStrength(samples, sampleRate, p.FrameLength, p.HopLength)
	if err != nil {
		return nil, 0, 0, err
	}
	bpm := analyze.EstimateTempo(env, sampleRate, p.HopLength)

	hopTime := float64(p.HopLength) / float64(sampleRate)
	return evidence, hopTime, bpm, nil
}

func runFit(cfg *fitConfig) (*fitResult, error) {
	start := time.Now()
	deadline := start.Add(time.Duration(cfg.timeBudget * float64(time.Second)))

	best := cloneCandidate(cfg.initCandidate)
	bestMetrics, err := evaluateCandidate(cfg, best)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation failed: %w", err)
	}
	fmt.Printf("Start score=%.4f similarity=%.2f%%\n",
		bestMetrics.Score, bestMetrics.Similarity*100.0)

	var mu sync.Mutex
	var evals int64 = 1
	var rounds int64
	var improves int64

	workers := cfg.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if time.Now().After(deadline) {
					return
				}
				if atomic.LoadInt64(&evals) >= int64(cfg.maxEvals) {
					return
				}

				round := atomic.AddInt64(&rounds, 1)
				remaining := cfg.maxEvals - int(atomic.LoadInt64(&evals))
				if remaining <= 0 {
					return
				}
				budget := minInt(cfg.mayflyRoundEvals, remaining)
				iters := maxInt(1, budget/(2*cfg.mayflyPop))

				mayflyConfig, err := newMayflyConfig(cfg.mayflyVariant, cfg.mayflyPop, len(cfg.defs), iters)
				if err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d setup failed: %v\n", round, err)
					return
				}
				mayflyConfig.Rand = rand.New(rand.NewSource(cfg.seed + round*7919))
				mayflyConfig.ObjectiveFunc = func(pos []float64) float64 {
					if time.Now().After(deadline) {
						mu.Lock()
						s := bestMetrics.Score
						mu.Unlock()
						return s + 1.0
					}
					evalNum, ok := reserveEval(&evals, cfg.maxEvals)
					if !ok {
						mu.Lock()
						s := bestMetrics.Score
						mu.Unlock()
						return s + 1.0
					}

					cand := fromNormalized(pos, cfg.defs)
					metrics, err := evaluateCandidate(cfg, cand)
					if err != nil {
						mu.Lock()
						s := bestMetrics.Score
						mu.Unlock()
						return s + 0.8
					}

					mu.Lock()
					if metrics.Score < bestMetrics.Score {
						best = cloneCandidate(cand)
						bestMetrics = metrics
						n := atomic.AddInt64(&improves, 1)
						fmt.Printf("Improved #%d eval=%d score=%.4f sim=%.2f%%\n",
							n, evalNum, metrics.Score, metrics.Similarity*100.0)
					}
					bestScore := bestMetrics.Score
					mu.Unlock()

					if cfg.reportEvery > 0 && evalNum%int64(cfg.reportEvery) == 0 {
						fmt.Printf("Progress eval=%d/%d elapsed=%.1fs best=%.4f\n",
							evalNum, cfg.maxEvals, time.Since(start).Seconds(), bestScore)
					}
					return metrics.Score
				}

				if _, err := runMayfly(mayflyConfig); err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", round, err)
				}
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return &fitResult{
		best:        cloneCandidate(best),
		bestMetrics: bestMetrics,
		evals:       int(atomic.LoadInt64(&evals)),
		elapsed:     time.Since(start).Seconds(),
	}, nil
}

func evaluateCandidate(cfg *fitConfig, cand candidate) (analysis.Metrics, error) {
	params := applyCandidate(cfg.baseParams, cfg.defs, cand)
	notes, err := transcribe.Transcribe(cfg.evidence, cfg.hopTime, params, nil)
	if err != nil {
		return analysis.Metrics{}, err
	}
	events, err := transcribe.ToMusicalTime(notes, cfg.bpm)
	if err != nil {
		return analysis.Metrics{}, err
	}
	return analysis.Compare(cfg.reference, noteList(events)), nil
}

func noteList(events []transcribe.MidiNoteEvent) []analysis.Note {
	out := make([]analysis.Note, len(events))
	for i, ev := range events {
		out[i] = analysis.Note{
			Onset:    ev.StartBeat,
			Duration: ev.DurationBeats,
			Pitch:    ev.Pitch,
		}
	}
	return out
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

func parseWorkers(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, fmt.Errorf("empty value (use integer >= 1 or 'auto')")
	}
	if v == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q (use integer >= 1 or 'auto')", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d (must be >= 1 or 'auto')", n)
	}
	return n, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
