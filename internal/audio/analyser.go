package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser settings, matching a browser AnalyserNode with fftSize 256.
const (
	fftSize     = 256
	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

var (
	windowOnce sync.Once
	window     [fftSize]float64 // Blackman
)

func initWindow() {
	for i := range fftSize {
		a := 2 * math.Pi * float64(i) / fftSize
		window[i] = 0.42 - 0.5*math.Cos(a) + 0.08*math.Cos(2*a)
	}
}

// Analyser taps a playing stream and reports its frequency spectrum as
// byte magnitudes, like the browser's getByteFrequencyData.
type Analyser struct {
	mu     sync.Mutex
	ring   [fftSize]float64
	pos    int
	filled int
	smooth [fftSize / 2]float64
	frame  []float64
	coeff  []complex128
	fft    *fourier.FFT
}

// NewAnalyser creates an analyser with no data.
func NewAnalyser() *Analyser {
	windowOnce.Do(initWindow)
	return &Analyser{
		frame: make([]float64, fftSize),
		coeff: make([]complex128, fftSize/2+1),
		fft:   fourier.NewFFT(fftSize),
	}
}

// Tap returns a stream that plays s unchanged while feeding the analyser.
func (a *Analyser) Tap(s beep.Streamer) beep.Streamer {
	return &tap{Streamer: s, a: a}
}

type tap struct {
	beep.Streamer
	a *Analyser
}

func (t *tap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.Streamer.Stream(samples)
	t.a.write(samples[:n])
	return n, ok
}

func (a *Analyser) write(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos = (a.pos + 1) % fftSize
	}
	a.filled = min(fftSize, a.filled+len(samples))
}

// Bands fills dst with up to 128 magnitudes in [0, 255] and returns how
// many were written, or 0 before a full window has been heard.
func (a *Analyser) Bands(dst []uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.filled < fftSize {
		return 0
	}

	for i := range fftSize {
		a.frame[i] = a.ring[(a.pos+i)%fftSize] * window[i]
	}

	a.coeff = a.fft.Coefficients(a.coeff, a.frame)

	n := min(len(dst), fftSize/2)
	for k := range n {
		mag := cmplx.Abs(a.coeff[k]) / fftSize
		a.smooth[k] = smoothing*a.smooth[k] + (1-smoothing)*mag

		db := minDecibels
		if a.smooth[k] > 0 {
			db = 20 * math.Log10(a.smooth[k])
		}
		v := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
		dst[k] = uint8(math.Max(0, math.Min(255, v)))
	}
	return n
}

// Reset drops the captured samples and smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos, a.filled = 0, 0
	a.ring = [fftSize]float64{}
	a.smooth = [fftSize / 2]float64{}
}
