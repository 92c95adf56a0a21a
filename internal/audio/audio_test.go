package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/canvas-arcade/internal/core"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns the sample count and peak.
func drain(s beep.Streamer, limit int) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for n < limit {
		k, ok := s.Stream(buf)
		for _, v := range buf[:k] {
			peak = math.Max(peak, math.Abs(v[0]))
		}
		n += k
		if !ok {
			break
		}
	}
	return n, peak
}

func TestSynthCues(t *testing.T) {
	for _, cue := range Cues {
		t.Run(string(cue), func(t *testing.T) {
			s := Synth(cue, testRate)
			if s == nil {
				t.Fatalf("Synth(%q) = nil, expected a stream", cue)
			}
			n, peak := drain(s, testRate.N(10e9))
			if n == 0 || n >= testRate.N(10e9) {
				t.Errorf("Synth(%q) length = %d samples, expected finite and non-empty", cue, n)
			}
			if peak <= 0 || peak > 1 {
				t.Errorf("Synth(%q) peak = %v, expected within (0, 1]", cue, peak)
			}
		})
	}

	if s := Synth("nope", testRate); s != nil {
		t.Error("Synth(unknown) != nil, expected nil")
	}
}

func TestEnvelope(t *testing.T) {
	tone, err := generators.SineTone(testRate, 440)
	if err != nil {
		t.Fatal(err)
	}
	total := testRate.N(100e6)
	env := NewEnvelope(tone, 100e6, 10e6, 10e6, testRate)

	buf := make([][2]float64, total+100)
	n, _ := env.Stream(buf)
	if n != total {
		t.Fatalf("Stream() = %d samples, expected %d", n, total)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %v, expected 0 at the start of the attack", buf[0][0])
	}
	if math.Abs(buf[n-1][0]) > 0.01 {
		t.Errorf("last sample = %v, expected near 0 at the end of the release", buf[n-1][0])
	}
}

func TestAnalyserPeak(t *testing.T) {
	a := NewAnalyser()
	dst := make([]uint8, 128)
	if n := a.Bands(dst); n != 0 {
		t.Fatalf("Bands() before data = %d, expected 0", n)
	}

	// 8 cycles per window lands exactly on bin 8.
	freq := 8 * float64(testRate) / fftSize
	tone, err := generators.SineTone(testRate, freq)
	if err != nil {
		t.Fatal(err)
	}
	drain(a.Tap(newVolume(tone, 0.01)), 1024)

	if n := a.Bands(dst); n != 128 {
		t.Fatalf("Bands() = %d, expected 128", n)
	}
	peak := 0
	for i, v := range dst {
		if v > dst[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("peak band = %d, expected 8 (bands %v)", peak, dst[:16])
	}
	if dst[8] == 0 || dst[60] != 0 {
		t.Errorf("band 8 = %d, band 60 = %d, expected a peak and silence", dst[8], dst[60])
	}

	a.Reset()
	if n := a.Bands(dst); n != 0 {
		t.Errorf("Bands() after Reset = %d, expected 0", n)
	}
}

func TestAnalyserMatchesDFT(t *testing.T) {
	samples := make([][2]float64, fftSize)
	frame := make([]float64, fftSize)
	for i := range samples {
		x := 0.2*math.Sin(2*math.Pi*5*float64(i)/fftSize) + 0.05*math.Cos(2*math.Pi*31*float64(i)/fftSize)
		samples[i] = [2]float64{x, x}
		frame[i] = x * window[i]
	}
	a := NewAnalyser()
	a.write(samples)

	dst := make([]uint8, fftSize/2)
	a.Bands(dst)

	for k := range dst {
		var re, im float64
		for i, x := range frame {
			re += x * math.Cos(2*math.Pi*float64(k*i)/fftSize)
			im -= x * math.Sin(2*math.Pi*float64(k*i)/fftSize)
		}
		mag := (1 - smoothing) * math.Hypot(re, im) / fftSize
		want := 0.0
		if mag > 0 {
			want = 255 * (20*math.Log10(mag) - minDecibels) / (maxDecibels - minDecibels)
		}
		want = math.Max(0, math.Min(255, want))
		if math.Abs(float64(dst[k])-want) > 1 {
			t.Errorf("band %d = %d, expected %.1f", k, dst[k], want)
		}
	}
}

func TestAnalyserSilence(t *testing.T) {
	a := NewAnalyser()
	drain(a.Tap(beep.Silence(fftSize)), fftSize)

	dst := make([]uint8, 32)
	if n := a.Bands(dst); n != 32 {
		t.Fatalf("Bands() = %d, expected 32", n)
	}
	for i, v := range dst {
		if v != 0 {
			t.Errorf("band %d = %d, expected 0", i, v)
		}
	}
}

func TestPlayerDropsUntilReady(t *testing.T) {
	p := NewPlayer(testRate, nil)
	p.Play(core.CueBeep, 1)
	if p.Ready() || p.mixer.Len() != 0 {
		t.Fatalf("Ready() = %v, mixer = %d, expected nothing before load", p.Ready(), p.mixer.Len())
	}

	p.Load("")
	if !p.Ready() {
		t.Fatal("Ready() = false after Load")
	}
	p.Play(core.CueBeep, 1)
	if p.mixer.Len() != 1 {
		t.Errorf("mixer streams = %d, expected 1", p.mixer.Len())
	}
}

func TestPlayerLoops(t *testing.T) {
	p := NewPlayer(testRate, nil)
	p.Load(t.TempDir())

	p.Play(core.CueMusic, 0.5)
	p.Play(core.CueMusic, 0.5)
	if p.mixer.Len() != 1 {
		t.Fatalf("mixer streams after replaying a loop = %d, expected 1", p.mixer.Len())
	}

	// Loops keep going past their own length.
	drain(p.mixer, testRate.N(2e9))
	if p.mixer.Len() != 1 {
		t.Errorf("mixer streams after 2s = %d, expected the loop", p.mixer.Len())
	}

	p.Stop(core.CueMusic)
	drain(p.mixer, 512)
	if p.mixer.Len() != 0 {
		t.Errorf("mixer streams after Stop = %d, expected 0", p.mixer.Len())
	}

	p.Play(core.CueMusic, 0.5)
	if p.mixer.Len() != 1 {
		t.Errorf("mixer streams after restart = %d, expected 1", p.mixer.Len())
	}
}

func TestPlayerMute(t *testing.T) {
	p := NewPlayer(testRate, nil)
	p.Load("")
	p.Play(core.CueRain, 0.5)

	p.SetMuted(true)
	p.Play(core.CueBeep, 1)
	drain(p.mixer, 512)
	if p.mixer.Len() != 0 {
		t.Errorf("mixer streams while muted = %d, expected 0", p.mixer.Len())
	}
}

func TestPlayerSpectrum(t *testing.T) {
	p := NewPlayer(testRate, nil)
	p.Load("")

	spec := p.Spectrum(core.CueShapes)
	if spec != p.Spectrum(core.CueShapes) {
		t.Error("Spectrum() returned a different analyser for the same cue")
	}

	dst := make([]uint8, 128)
	if n := spec.Bands(dst); n != 0 {
		t.Fatalf("Bands() before play = %d, expected 0", n)
	}
	p.Play(core.CueShapes, 1)
	drain(p.mixer, testRate.N(100e6))
	if n := spec.Bands(dst); n != 128 {
		t.Errorf("Bands() while playing = %d, expected 128", n)
	}
}

func TestNop(t *testing.T) {
	var sink core.AudioSink = Nop{}
	sink.Play(core.CueWin, 1)
	sink.Stop(core.CueWin)
	if s := (Nop{}).Spectrum(core.CueRain); s != nil {
		t.Errorf("Nop.Spectrum() = %v, expected nil", s)
	}
}
