package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// WaveType selects the oscillator of a synthesised note.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// note is one segment of a synthesised cue.
type note struct {
	freq    float64
	length  time.Duration
	wave    WaveType
	attack  time.Duration
	release time.Duration
	gain    float64
}

// patches are the fallback sounds used when no asset file exists.
var patches = map[core.Cue][]note{
	core.CueBeep:   {{freq: 880, length: 60 * time.Millisecond, attack: 5 * time.Millisecond, release: 30 * time.Millisecond, gain: 0.5}},
	core.CueSpawn:  {{freq: 660, length: 40 * time.Millisecond, attack: 5 * time.Millisecond, release: 20 * time.Millisecond, gain: 0.4}},
	core.CueBounce: {{freq: 330, length: 50 * time.Millisecond, attack: 5 * time.Millisecond, release: 25 * time.Millisecond, gain: 0.5}},
	core.CueHit:    {{freq: 440, length: 60 * time.Millisecond, wave: WaveSquare, attack: 5 * time.Millisecond, release: 30 * time.Millisecond, gain: 0.3}},
	core.CueBullet: {{length: 40 * time.Millisecond, wave: WaveNoise, attack: 2 * time.Millisecond, release: 30 * time.Millisecond, gain: 0.3}},
	core.CueDeath:  {{freq: 110, length: 200 * time.Millisecond, wave: WaveSaw, attack: 5 * time.Millisecond, release: 150 * time.Millisecond, gain: 0.4}},
	core.CueDead:   {{freq: 80, length: 300 * time.Millisecond, wave: WaveSquare, attack: 10 * time.Millisecond, release: 200 * time.Millisecond, gain: 0.3}},
	core.CueWin: {
		{freq: 523.25, length: 120 * time.Millisecond, attack: 5 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.5},
		{freq: 659.25, length: 120 * time.Millisecond, attack: 5 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.5},
		{freq: 783.99, length: 120 * time.Millisecond, attack: 5 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.5},
		{freq: 1046.5, length: 300 * time.Millisecond, attack: 5 * time.Millisecond, release: 200 * time.Millisecond, gain: 0.5},
	},
	core.CueLose: {
		{freq: 392.00, length: 150 * time.Millisecond, wave: WaveSaw, attack: 5 * time.Millisecond, release: 60 * time.Millisecond, gain: 0.3},
		{freq: 329.63, length: 150 * time.Millisecond, wave: WaveSaw, attack: 5 * time.Millisecond, release: 60 * time.Millisecond, gain: 0.3},
		{freq: 261.63, length: 400 * time.Millisecond, wave: WaveSaw, attack: 5 * time.Millisecond, release: 300 * time.Millisecond, gain: 0.3},
	},
	core.CueMusic:  arpeggio(220, 246.94, 261.63, 329.63),
	core.CueShapes: arpeggio(196, 261.63, 293.66, 392),
	core.CueRain:   {{length: 2 * time.Second, wave: WaveNoise, attack: 200 * time.Millisecond, release: 200 * time.Millisecond, gain: 0.15}},
	core.CueRain2:  {{length: 3 * time.Second, wave: WaveNoise, attack: 300 * time.Millisecond, release: 300 * time.Millisecond, gain: 0.1}},
}

// looping cues restart from the top when they run out.
var looping = map[core.Cue]bool{
	core.CueMusic:  true,
	core.CueShapes: true,
	core.CueRain:   true,
	core.CueRain2:  true,
}

func arpeggio(freqs ...float64) []note {
	out := make([]note, len(freqs))
	for i, f := range freqs {
		out[i] = note{freq: f, length: 250 * time.Millisecond, attack: 20 * time.Millisecond, release: 120 * time.Millisecond, gain: 0.2}
	}
	return out
}

// Synth returns the fallback sound for a cue, or nil for an unknown cue.
// The stream ends after the last note.
func Synth(cue core.Cue, rate beep.SampleRate) beep.Streamer {
	notes, ok := patches[cue]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.streamer(rate))
	}
	return beep.Seq(parts...)
}

func (n note) streamer(rate beep.SampleRate) beep.Streamer {
	var osc beep.Streamer
	var err error
	switch n.wave {
	case WaveSquare:
		osc, err = generators.SquareTone(rate, n.freq)
	case WaveSaw:
		osc, err = generators.SawtoothTone(rate, n.freq)
	case WaveNoise:
		osc = noise()
	default:
		osc, err = generators.SineTone(rate, n.freq)
	}
	if err != nil {
		// Tone above Nyquist.
		osc = beep.Silence(-1)
	}
	shaped := NewEnvelope(beep.Take(rate.N(n.length), osc), n.length, n.attack, n.release, rate)
	return newVolume(shaped, n.gain)
}

// noise is an endless white noise source.
func noise() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rand.Float64()*2 - 1
			samples[i][0] = v
			samples[i][1] = v
		}
		return len(samples), true
	})
}

// envelope applies attack/release shaping to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope fades s in over attack and out over the last release of
// duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
			vol = math.Min(vol, float64(remaining)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. Zero or negative volume is silent;
// math.Log2(0) would be -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
