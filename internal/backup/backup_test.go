package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bardbox/bardbox/internal/asset"
)

// mockUploader records uploads and can fail on a specific object.
type mockUploader struct {
	objects map[string]string
	failOn  string
}

func (m *mockUploader) Upload(ctx context.Context, localPath, objectName string) error {
	if objectName == m.failOn {
		return errors.New("upload failed")
	}
	if m.objects == nil {
		m.objects = make(map[string]string)
	}
	m.objects[objectName] = localPath
	return nil
}

func (m *mockUploader) Close() error { return nil }

func newTestService(t *testing.T, uploader Uploader) (*Service, *asset.Store, *asset.Store, string) {
	base := t.TempDir()

	music, err := asset.NewStore(filepath.Join(base, "music"), asset.MusicExtensions)
	require.NoError(t, err)
	icons, err := asset.NewStore(filepath.Join(base, "icons"), asset.IconExtensions)
	require.NoError(t, err)

	mappingPath := filepath.Join(base, "mappings.json")
	return NewService(uploader, mappingPath, music, icons), music, icons, mappingPath
}

func TestRunUploadsWholeLibrary(t *testing.T) {
	uploader := &mockUploader{}
	svc, music, icons, mappingPath := newTestService(t, uploader)

	require.NoError(t, os.WriteFile(mappingPath, []byte(`{"slots":[]}`), 0644))
	require.NoError(t, os.WriteFile(music.Path("drum.wav"), []byte("pcm"), 0644))
	require.NoError(t, os.WriteFile(icons.Path("drum.png"), []byte("img"), 0644))

	count, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Contains(t, uploader.objects, "mappings.json")
	assert.Contains(t, uploader.objects, "music/drum.wav")
	assert.Contains(t, uploader.objects, "icons/drum.png")
}

func TestRunWithoutMappingDocument(t *testing.T) {
	uploader := &mockUploader{}
	svc, music, _, _ := newTestService(t, uploader)

	require.NoError(t, os.WriteFile(music.Path("a.mp3"), []byte("pcm"), 0644))

	count, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotContains(t, uploader.objects, "mappings.json")
}

func TestRunAbortsOnUploadFailure(t *testing.T) {
	uploader := &mockUploader{failOn: "music/a.mp3"}
	svc, music, _, _ := newTestService(t, uploader)

	require.NoError(t, os.WriteFile(music.Path("a.mp3"), []byte("pcm"), 0644))

	_, err := svc.Run(context.Background())

	assert.Error(t, err)
}
