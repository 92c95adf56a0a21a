package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

// Cues lists every cue the bank provides.
var Cues = []core.Cue{
	core.CueBeep, core.CueDeath, core.CueDead, core.CueWin, core.CueLose,
	core.CueMusic, core.CueSpawn, core.CueHit, core.CueBounce, core.CueBullet,
	core.CueShapes, core.CueRain, core.CueRain2,
}

// resampleQuality trades CPU for fidelity when an asset's rate differs.
const resampleQuality = 4

type bank struct {
	buffers map[core.Cue]*beep.Buffer
}

// Load fills the sound bank from dir and blocks until done. An empty dir
// uses only synthesised sounds.
func (p *Player) Load(dir string) {
	start := time.Now()
	b, loaded := loadBank(dir, p.rate, p.logger)
	p.bank.Store(b)
	p.logger.Debug("audio bank ready", "dir", dir, "files", loaded, "took", time.Since(start))
}

// LoadAsync loads the bank on a goroutine. Cues played meanwhile are
// dropped.
func (p *Player) LoadAsync(dir string) {
	go p.Load(dir)
}

func loadBank(dir string, rate beep.SampleRate, logger *log.Logger) (*bank, int) {
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	b := &bank{buffers: make(map[core.Cue]*beep.Buffer, len(Cues))}
	loaded := 0

	for _, cue := range Cues {
		buf := beep.NewBuffer(format)
		err := appendFile(buf, dir, cue, rate)
		if err == nil {
			loaded++
			b.buffers[cue] = buf
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("falling back to synthesised sound", "cue", cue, "err", err)
		}

		buf = beep.NewBuffer(format)
		if s := Synth(cue, rate); s != nil {
			buf.Append(s)
		}
		b.buffers[cue] = buf
	}
	return b, loaded
}

// appendFile decodes <dir>/<cue>.mp3 into buf.
func appendFile(buf *beep.Buffer, dir string, cue core.Cue, rate beep.SampleRate) error {
	if dir == "" {
		return fs.ErrNotExist
	}
	path := filepath.Join(dir, string(cue)+".mp3")
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	s, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != rate {
		src = beep.Resample(resampleQuality, format.SampleRate, rate, s)
	}
	buf.Append(src)
	if err := s.Err(); err != nil {
		return fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return nil
}
