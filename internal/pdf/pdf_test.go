package pdf

import (
	"archive/zip"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImageToBase64(t *testing.T) {
	encoded := EncodeImageToBase64([]byte("fake-png-bytes"))
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), decoded)
}

func TestSavePageImage(t *testing.T) {
	dir := t.TempDir()
	encoded := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	path, err := SavePageImage(encoded, "scan42", 3, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "page_pictures", "scan42_page3.png"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), content)
}

func TestSavePageImageRejectsInvalidBase64(t *testing.T) {
	_, err := SavePageImage("not-base64!!!", "scan", 1, t.TempDir())
	assert.Error(t, err)
}

func writeTestZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestExtractZipPDFs(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "scans.zip")
	writeTestZip(t, zipPath, map[string][]byte{
		"a.pdf":         []byte("pdf-a"),
		"nested/b.PDF":  []byte("pdf-b"),
		"notes.txt":     []byte("ignore me"),
		"../escape.pdf": []byte("outside"),
		"/etc/evil.pdf": []byte("outside"),
	})

	destDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(destDir, 0755))

	extracted, err := ExtractZipPDFs(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, extracted, 2)

	content, err := os.ReadFile(filepath.Join(destDir, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-a"), content)

	content, err = os.ReadFile(filepath.Join(destDir, "nested", "b.PDF"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-b"), content)

	// Nichts darf außerhalb des Zielverzeichnisses landen
	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, os.IsNotExist(err))
}
