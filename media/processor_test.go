package media

import (
	"bytes"
	"image"
	"io"
	"os"
	"path"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore captures saves in memory so the encode path can be tested without
// touching the filesystem.
type memStore struct {
	saves map[string][]byte // "assetType/filename" -> encoded bytes
}

func newMemStore() *memStore {
	return &memStore{saves: make(map[string][]byte)}
}

func (m *memStore) Save(assetType AssetType, filename string, data io.Reader) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	rel := path.Join(string(assetType), filename)
	m.saves[rel] = buf
	return rel, nil
}

func (m *memStore) Get(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	return nil, nil, os.ErrNotExist
}

func (m *memStore) Delete(relativePath string) error { return nil }

func (m *memStore) GetFullPath(relativePath string) (string, error) { return relativePath, nil }

func (m *memStore) EnsureDir(assetType AssetType) (string, error) { return string(assetType), nil }

func TestGenerateThumbnailSavesJpeg(t *testing.T) {
	store := newMemStore()
	p := NewProcessor(store)

	original := image.NewRGBA(image.Rect(0, 0, 640, 480))
	relPath, err := p.GenerateThumbnail(original, "photo-1.png")
	require.NoError(t, err)

	// derived versions are JPEG encoded, so a .png original must not keep
	// its extension in the saved name
	assert.Equal(t, path.Join(string(AssetTypeThumbnail), "photo-1.jpg"), relPath)

	data, ok := store.saves[relPath]
	require.True(t, ok)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2], "expected a JPEG SOI marker")
}

func TestGenerateWebVersionBoundsLongestSide(t *testing.T) {
	store := newMemStore()
	p := NewProcessor(store)

	original := image.NewRGBA(image.Rect(0, 0, 1600, 1200))
	relPath, err := p.GenerateWebVersion(original, "photo-2.heic")
	require.NoError(t, err)
	assert.Equal(t, path.Join(string(AssetTypeWeb), "photo-2.jpg"), relPath)

	img, err := imaging.Decode(readerFor(t, store, relPath))
	require.NoError(t, err)
	assert.Equal(t, WebMaxSize, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestGenerateWebVersionKeepsSmallImages(t *testing.T) {
	store := newMemStore()
	p := NewProcessor(store)

	original := image.NewRGBA(image.Rect(0, 0, 320, 240))
	relPath, err := p.GenerateWebVersion(original, "photo-3.jpg")
	require.NoError(t, err)

	img, err := imaging.Decode(readerFor(t, store, relPath))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func readerFor(t *testing.T, store *memStore, relPath string) io.Reader {
	t.Helper()
	data, ok := store.saves[relPath]
	require.True(t, ok, "no saved asset at %s", relPath)
	return bytes.NewReader(data)
}
