// Package audio plays the toys' sound cues through gopxl/beep.
//
// Cue sounds come from <cue>.mp3 files in an asset directory, falling back
// to synthesised tones. The bank loads in the background; until it is
// ready every cue is silently dropped.
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// DefaultSampleRate is the output rate of the speaker.
const DefaultSampleRate = beep.SampleRate(44100)

// Player implements core.AudioSink on a beep mixer.
type Player struct {
	rate   beep.SampleRate
	mixer  *beep.Mixer
	logger *log.Logger

	// Guard the mixer against the speaker goroutine. No-ops without a device.
	lock, unlock func()
	opened       bool

	bank  atomic.Pointer[bank]
	muted atomic.Bool

	mu        sync.Mutex
	loops     map[core.Cue]*beep.Ctrl
	analysers map[core.Cue]*Analyser
}

// NewPlayer creates a player that mixes cues without an output device.
// The mixer is driven by whoever streams it; Open connects the speaker.
func NewPlayer(rate beep.SampleRate, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		rate:      rate,
		mixer:     &beep.Mixer{},
		logger:    logger,
		lock:      func() {},
		unlock:    func() {},
		loops:     make(map[core.Cue]*beep.Ctrl),
		analysers: make(map[core.Cue]*Analyser),
	}
}

// Open creates a player on the system speaker.
func Open(rate beep.SampleRate, logger *log.Logger) (*Player, error) {
	p := NewPlayer(rate, logger)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	p.lock, p.unlock = speaker.Lock, speaker.Unlock
	p.opened = true
	speaker.Play(p.mixer)
	return p, nil
}

// Close silences every cue and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	clear(p.loops)
	p.mu.Unlock()

	p.lock()
	p.mixer.Clear()
	p.unlock()
	if p.opened {
		speaker.Close()
		p.opened = false
	}
}

// Ready reports whether the sound bank has finished loading.
func (p *Player) Ready() bool {
	return p.bank.Load() != nil
}

// SetMuted drops every future cue while muted and stops the loops.
func (p *Player) SetMuted(muted bool) {
	p.muted.Store(muted)
	if muted {
		for _, c := range Cues {
			if looping[c] {
				p.Stop(c)
			}
		}
	}
}

// Play starts a cue. Looping cues that are already playing are left
// alone. Calls before the bank is ready are dropped.
func (p *Player) Play(cue core.Cue, volume float64) {
	if p.muted.Load() {
		return
	}
	b := p.bank.Load()
	if b == nil {
		return
	}
	buf, ok := b.buffers[cue]
	if !ok || buf.Len() == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var s beep.Streamer
	if looping[cue] {
		if _, playing := p.loops[cue]; playing {
			return
		}
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	} else {
		s = buf.Streamer(0, buf.Len())
	}
	if a, ok := p.analysers[cue]; ok {
		s = a.Tap(s)
	}
	s = newVolume(s, volume)

	if looping[cue] {
		ctrl := &beep.Ctrl{Streamer: s}
		p.loops[cue] = ctrl
		s = ctrl
	}

	p.lock()
	p.mixer.Add(s)
	p.unlock()
}

// Stop ends a looping cue. One-shot cues play out.
func (p *Player) Stop(cue core.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctrl, ok := p.loops[cue]
	if !ok {
		return
	}
	delete(p.loops, cue)

	// A drained Ctrl is dropped by the mixer.
	p.lock()
	ctrl.Streamer = nil
	p.unlock()
}

// Spectrum returns the analyser of a cue. It receives data from the next
// time the cue starts.
func (p *Player) Spectrum(cue core.Cue) core.Spectrum {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.analysers[cue]
	if !ok {
		a = NewAnalyser()
		p.analysers[cue] = a
	}
	return a
}

// Nop is a silent sink for muted or headless sessions.
type Nop struct{}

func (Nop) Play(core.Cue, float64) {}
func (Nop) Stop(core.Cue)          {}

// Spectrum always returns nil: there is nothing to analyse.
func (Nop) Spectrum(core.Cue) core.Spectrum { return nil }
