package beep

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
)

var testFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// writeTone writes a WAV file holding n frames of a 440 Hz sine at half scale.
func writeTone(t *testing.T, name string, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	pos := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.5 * math.Sin(2*math.Pi*440*float64(pos)/float64(testFormat.SampleRate))
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
	require.NoError(t, wav.Encode(file, beep.Take(n, gen), testFormat))
	return path
}

// openTest opens path with the sound device replaced by a capture.
func openTest(t *testing.T, path string) (*Player, *beep.Streamer) {
	t.Helper()

	p, err := Open(logger.NewTestLogger(), path, 256)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	var sink beep.Streamer
	p.out = func(_ beep.Format, s beep.Streamer) error {
		sink = s
		return nil
	}
	return p, &sink
}

func TestOpenWAV(t *testing.T) {
	p, _ := openTest(t, writeTone(t, "kick drum.wav", 4096))

	assert.Equal(t, "kick drum", p.Title())
	assert.Equal(t, testFormat.SampleRate, p.Format().SampleRate)
	assert.False(t, p.IsPlaying(), "not playing before Play")
	assert.Equal(t, 1.0, p.Volume())
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o600))

	_, err := Open(logger.NewTestLogger(), path, 256)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	var aerr *domain.AudioSourceError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "decode", aerr.Op)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(logger.NewTestLogger(), filepath.Join(t.TempDir(), "missing.wav"), 256)

	var aerr *domain.AudioSourceError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "open", aerr.Op)
}

func TestOpenCorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF0000WAVEjunk"), 0o600))

	_, err := Open(logger.NewTestLogger(), path, 256)
	assert.Error(t, err)
}

func TestPlayerPullsLiveSamples(t *testing.T) {
	p, sink := openTest(t, writeTone(t, "tone.wav", 8192))

	require.NoError(t, p.Play())
	require.NotNil(t, *sink)
	assert.True(t, p.IsPlaying())
	assert.ErrorIs(t, p.Play(), domain.ErrAlreadyRunning)

	// Act as the speaker for one buffer.
	n, ok := (*sink).Stream(make([][2]float64, 1024))
	require.True(t, ok)
	require.Equal(t, 1024, n)

	wave := make([]uint8, 256)
	require.Equal(t, 256, p.PullWaveform(wave))
	lo, hi := uint8(255), uint8(0)
	for _, v := range wave {
		lo, hi = min(lo, v), max(hi, v)
	}
	assert.InDelta(t, 192, float64(hi), 3)
	assert.InDelta(t, 64, float64(lo), 3)

	spectrum := make([]uint8, 128)
	require.Equal(t, 128, p.PullSpectrum(spectrum))
	// 440 Hz at 44.1 kHz with 256 points falls near bin 2.5.
	peak := 0
	for i, v := range spectrum {
		if v > spectrum[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 2.5, float64(peak), 1.5)
	assert.Greater(t, spectrum[peak], uint8(0))
}

func TestPlayerVolume(t *testing.T) {
	p, sink := openTest(t, writeTone(t, "tone.wav", 4096))
	require.NoError(t, p.Play())

	require.NoError(t, p.SetVolume(0.5))
	assert.Equal(t, 0.5, p.Volume())

	buf := make([][2]float64, 64)
	(*sink).Stream(buf)
	peak := 0.0
	for _, s := range buf {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	assert.InDelta(t, 0.25, peak, 0.05, "half volume halves the output")

	require.NoError(t, p.SetVolume(0))
	assert.Equal(t, 0.0, p.Volume())
	(*sink).Stream(buf)
	for _, s := range buf {
		assert.Zero(t, s[0])
	}

	assert.ErrorIs(t, p.SetVolume(1.5), domain.ErrInvalidVolume)
	assert.ErrorIs(t, p.SetVolume(-0.1), domain.ErrInvalidVolume)
}

func TestPlayerFinishes(t *testing.T) {
	p, sink := openTest(t, writeTone(t, "short.wav", 512))
	require.NoError(t, p.Play())

	buf := make([][2]float64, 256)
	for i := 0; i < 8; i++ {
		(*sink).Stream(buf)
	}

	assert.True(t, p.Finished())
	assert.False(t, p.IsPlaying())
}

func TestPlayerClose(t *testing.T) {
	p, _ := openTest(t, writeTone(t, "tone.wav", 1024))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.False(t, p.IsPlaying())
	assert.Error(t, p.Play())
}

func TestSpeakerOutputInitFailure(t *testing.T) {
	p, _ := openTest(t, writeTone(t, "tone.wav", 1024))
	p.out = func(beep.Format, beep.Streamer) error { return errors.New("no device") }

	err := p.Play()
	var aerr *domain.AudioSourceError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "speaker", aerr.Op)
	assert.False(t, p.IsPlaying())
}
