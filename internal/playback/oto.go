package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// OtoEngine is the real output device: an oto context fed by the mp3/wav
// decoders, with every track wrapped in an infinite loop.
type OtoEngine struct {
	ctx        *oto.Context
	sampleRate int
}

// NewOtoEngine opens the audio device. Failure here is fatal to the
// service; a soundboard without audio output cannot function.
func NewOtoEngine(sampleRate int) (*OtoEngine, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio device: %w", err)
	}
	<-ready

	return &OtoEngine{ctx: ctx, sampleRate: sampleRate}, nil
}

func (e *OtoEngine) NewPlayer(path string) (Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var stream interface {
		Read([]byte) (int, error)
		Seek(int64, int) (int64, error)
		Length() int64
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(e.sampleRate, f)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(e.sampleRate, f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format: %s", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	loop := audio.NewInfiniteLoop(stream, stream.Length())
	return &otoPlayer{player: e.ctx.NewPlayer(loop), file: f}, nil
}

// otoPlayer keeps the source file handle so Close releases it along with
// the device player.
type otoPlayer struct {
	player *oto.Player
	file   *os.File
}

func (p *otoPlayer) Play() {
	p.player.Play()
}

func (p *otoPlayer) Pause() {
	p.player.Pause()
}

func (p *otoPlayer) SetVolume(level float64) {
	p.player.SetVolume(level)
}

func (p *otoPlayer) Close() error {
	err := p.player.Close()
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	return err
}
