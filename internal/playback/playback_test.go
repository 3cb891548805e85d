package playback

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bardbox/bardbox/internal/asset"
)

// fakePlayer records the operations the controller performs on a track.
type fakePlayer struct {
	playing bool
	closed  bool
	volume  float64
}

func (p *fakePlayer) Play()                   { p.playing = true }
func (p *fakePlayer) Pause()                  { p.playing = false }
func (p *fakePlayer) SetVolume(level float64) { p.volume = level }
func (p *fakePlayer) Close() error            { p.closed = true; return nil }

// fakeEngine hands out fakePlayers and can be told to fail.
type fakeEngine struct {
	players []*fakePlayer
	err     error
}

func (e *fakeEngine) NewPlayer(path string) (Player, error) {
	if e.err != nil {
		return nil, e.err
	}
	p := &fakePlayer{}
	e.players = append(e.players, p)
	return p, nil
}

func newTestController(t *testing.T) (*Controller, *fakeEngine, *asset.Store) {
	store, err := asset.NewStore(t.TempDir(), asset.MusicExtensions)
	require.NoError(t, err)
	engine := &fakeEngine{}
	return NewController(engine, store), engine, store
}

func addTrack(t *testing.T, store *asset.Store, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(store.Path(name), []byte("pcm"), 0644))
}

func TestPlayMissingAsset(t *testing.T) {
	ctrl, engine, _ := newTestController(t)

	err := ctrl.Play("missing.mp3")

	assert.ErrorIs(t, err, ErrAssetNotFound)
	assert.Empty(t, engine.players)

	track, playing := ctrl.Current()
	assert.Empty(t, track)
	assert.False(t, playing)
}

func TestPlayStartsLoopingTrack(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "drum.wav")

	require.NoError(t, ctrl.Play("drum.wav"))

	require.Len(t, engine.players, 1)
	assert.True(t, engine.players[0].playing)

	track, playing := ctrl.Current()
	assert.Equal(t, "drum.wav", track)
	assert.True(t, playing)
}

func TestPlayReplacesPreviousTrack(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "a.mp3")
	addTrack(t, store, "b.mp3")

	require.NoError(t, ctrl.Play("a.mp3"))
	require.NoError(t, ctrl.Play("b.mp3"))

	require.Len(t, engine.players, 2)
	assert.True(t, engine.players[0].closed)
	assert.False(t, engine.players[0].playing)
	assert.True(t, engine.players[1].playing)

	track, _ := ctrl.Current()
	assert.Equal(t, "b.mp3", track)
}

func TestPlayEngineFailureKeepsState(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "a.mp3")
	addTrack(t, store, "bad.mp3")

	require.NoError(t, ctrl.Play("a.mp3"))

	engine.err = errors.New("decode failed")
	err := ctrl.Play("bad.mp3")

	assert.Error(t, err)
	// The previous track is still loaded and playing
	assert.False(t, engine.players[0].closed)
	track, playing := ctrl.Current()
	assert.Equal(t, "a.mp3", track)
	assert.True(t, playing)
}

func TestStopIsIdempotent(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "a.mp3")
	require.NoError(t, ctrl.Play("a.mp3"))

	ctrl.Stop()
	ctrl.Stop()

	assert.False(t, engine.players[0].playing)
	// Stop keeps the track loaded; only Unload releases it
	assert.False(t, engine.players[0].closed)

	track, playing := ctrl.Current()
	assert.Equal(t, "a.mp3", track)
	assert.False(t, playing)
}

func TestStopWhileStopped(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	ctrl.Stop()

	_, playing := ctrl.Current()
	assert.False(t, playing)
}

func TestSetVolumeClamps(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	assert.Equal(t, 0.0, ctrl.SetVolume(-0.5))
	assert.Equal(t, 1.0, ctrl.SetVolume(3.7))
	assert.Equal(t, 0.25, ctrl.SetVolume(0.25))
}

func TestSetVolumeAppliesToCurrentAndFuture(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "a.mp3")
	addTrack(t, store, "b.mp3")

	require.NoError(t, ctrl.Play("a.mp3"))
	ctrl.SetVolume(0.4)
	assert.Equal(t, 0.4, engine.players[0].volume)

	require.NoError(t, ctrl.Play("b.mp3"))
	assert.Equal(t, 0.4, engine.players[1].volume)
}

func TestUnloadReleasesTrack(t *testing.T) {
	ctrl, engine, store := newTestController(t)
	addTrack(t, store, "a.mp3")
	require.NoError(t, ctrl.Play("a.mp3"))

	ctrl.Unload()

	assert.True(t, engine.players[0].closed)
	track, playing := ctrl.Current()
	assert.Empty(t, track)
	assert.False(t, playing)

	// Unload with nothing loaded is a no-op
	ctrl.Unload()
}
