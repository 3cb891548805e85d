// Package playback drives the single audio output. At most one track is
// loaded at a time; playing a new track replaces the previous one.
package playback

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bardbox/bardbox/internal/asset"
)

var ErrAssetNotFound = errors.New("audio asset not found")

// Player is one loaded, loopable track on the output device.
type Player interface {
	Play()
	Pause()
	SetVolume(level float64)
	Close() error
}

// Engine abstracts the audio output device so the controller can be tested
// without opening real hardware.
type Engine interface {
	// NewPlayer prepares a looping player for the audio file at path.
	NewPlayer(path string) (Player, error)
}

// Controller serializes all transitions on the shared output. Two states:
// stopped and playing.
type Controller struct {
	mu     sync.Mutex
	engine Engine
	store  *asset.Store

	player  Player
	track   string
	playing bool
	volume  float64
}

func NewController(engine Engine, store *asset.Store) *Controller {
	return &Controller{engine: engine, store: store, volume: 1.0}
}

// Play loads name from the music store and starts looping playback,
// replacing whatever was loaded before. On failure the previous state is
// untouched.
func (c *Controller) Play(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.Exists(name) {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}

	player, err := c.engine.NewPlayer(c.store.Path(name))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	// Only tear down the old track once the new one is ready.
	c.release()

	player.SetVolume(c.volume)
	player.Play()

	c.player = player
	c.track = name
	c.playing = true
	return nil
}

// Stop pauses output. The track stays loaded; idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		c.player.Pause()
		c.playing = false
	}
}

// SetVolume clamps level to [0, 1], applies it to the current and any
// future player, and returns the value actually applied.
func (c *Controller) SetVolume(level float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	c.volume = level

	if c.player != nil {
		c.player.SetVolume(level)
	}
	return level
}

// Unload releases the loaded track and its file handle. Required before the
// underlying file can be deleted or renamed on platforms that lock open
// media files.
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
}

// Current reports the loaded track name and whether it is playing.
func (c *Controller) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track, c.playing
}

func (c *Controller) release() {
	if c.player == nil {
		return
	}
	c.player.Pause()
	c.player.Close()
	c.player = nil
	c.track = ""
	c.playing = false
}
