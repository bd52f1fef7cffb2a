package beep

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/ports"
)

// SupportedFormats lists the file extensions Open can decode.
var SupportedFormats = []string{".wav", ".mp3"}

// output hands the finished chain to a sound device.
type output func(format beep.Format, s beep.Streamer) error

// Player plays one audio file and exposes it as an AudioSource.
//
// The chain is decoder -> Ctrl -> Tap -> Volume -> speaker. The tap sits before
// the volume stage; a muted player reports volume zero and the classifier
// treats that as silence.
//
// Thread-safety: This implementation is thread-safe. Pull methods are meant to be
// called from a single render loop.
type Player struct {
	logger *slog.Logger

	path   string
	title  string
	stream beep.StreamSeekCloser
	format beep.Format

	ctrl     *beep.Ctrl
	tap      *Tap
	gain     *effects.Volume
	chain    beep.Streamer
	analyser *Analyser
	scratch  []float64
	out      output

	mu       sync.Mutex
	level    float64
	started  bool
	closed   bool
	finished atomic.Bool
}

// Open decodes path and prepares it for playback with an fftSize-point analyser.
// The file stays open until Close.
func Open(logger *slog.Logger, path string, fftSize int) (*Player, error) {
	ext := strings.ToLower(filepath.Ext(path))

	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewAudioSourceError("open", path, "cannot open file", err)
	}

	title := readTitle(file, path)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, domain.NewAudioSourceError("open", path, "cannot rewind file", err)
	}

	var stream beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".wav":
		stream, format, err = wav.Decode(file)
	case ".mp3":
		stream, format, err = mp3.Decode(file)
	default:
		_ = file.Close()
		return nil, domain.NewAudioSourceError("decode", path, ext, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		_ = file.Close()
		return nil, domain.NewAudioSourceError("decode", path, "cannot decode audio", err)
	}

	p := &Player{
		logger:   logger,
		path:     path,
		title:    title,
		stream:   stream,
		format:   format,
		analyser: NewAnalyser(fftSize),
		level:    1,
		out:      speakerOutput,
	}
	p.scratch = make([]float64, p.analyser.Size())
	p.ctrl = &beep.Ctrl{Streamer: stream}
	p.tap = NewTap(p.ctrl, p.analyser.Size())
	p.gain = &effects.Volume{Streamer: p.tap, Base: 2}
	p.chain = beep.Seq(p.gain, beep.Callback(func() {
		p.finished.Store(true)
	}))

	logger.Debug("audio file opened",
		slog.String("path", path),
		slog.String("title", title),
		slog.Int("sample_rate", int(format.SampleRate)),
		slog.Int("channels", format.NumChannels))

	return p, nil
}

// readTitle returns the tagged title, falling back to the file name.
func readTitle(file io.ReadSeeker, path string) string {
	if metadata, err := tag.ReadFrom(file); err == nil && metadata != nil {
		if title := strings.TrimSpace(metadata.Title()); title != "" {
			if artist := strings.TrimSpace(metadata.Artist()); artist != "" {
				return artist + " - " + title
			}
			return title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func speakerOutput(format beep.Format, s beep.Streamer) error {
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

// Title returns the track title for the window caption.
func (p *Player) Title() string { return p.title }

// Format returns the decoded stream format.
func (p *Player) Format() beep.Format { return p.format }

// Play starts playback on the sound device.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.NewAudioSourceError("play", p.path, "player closed", nil)
	}
	if p.started {
		return domain.ErrAlreadyRunning
	}
	if err := p.out(p.format, p.chain); err != nil {
		return domain.NewAudioSourceError("speaker", p.path, "cannot start sound device", err)
	}
	p.started = true

	p.logger.Info("playback started", slog.String("title", p.title))
	return nil
}

// SetVolume sets the output level in [0, 1]. Zero mutes.
func (p *Player) SetVolume(level float64) error {
	if level < 0 || level > 1 || math.IsNaN(level) {
		return domain.ErrInvalidVolume
	}

	p.mu.Lock()
	p.level = level
	p.mu.Unlock()

	speaker.Lock()
	p.gain.Silent = level == 0
	if level > 0 {
		p.gain.Volume = math.Log2(level)
	}
	speaker.Unlock()
	return nil
}

// Finished reports whether the stream played to the end.
func (p *Player) Finished() bool {
	return p.finished.Load()
}

// IsPlaying implements ports.AudioSource.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	started, closed := p.started, p.closed
	p.mu.Unlock()

	if !started || closed || p.finished.Load() {
		return false
	}
	speaker.Lock()
	paused := p.ctrl.Paused
	speaker.Unlock()
	return !paused
}

// Volume implements ports.AudioSource.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// PullSpectrum implements ports.AudioSource.
func (p *Player) PullSpectrum(dst []uint8) int {
	p.tap.Latest(p.scratch)
	return p.analyser.Spectrum(p.scratch, dst)
}

// PullWaveform implements ports.AudioSource.
func (p *Player) PullWaveform(dst []uint8) int {
	n := p.tap.Latest(p.scratch)
	return p.analyser.Waveform(p.scratch[:n], dst)
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()

	if started {
		speaker.Clear()
	}
	p.tap.Reset()

	if err := p.stream.Close(); err != nil {
		return domain.NewAudioSourceError("close", p.path, "cannot close stream", err)
	}
	p.logger.Debug("audio file closed", slog.String("path", p.path))
	return nil
}

var _ ports.AudioSource = (*Player)(nil)
