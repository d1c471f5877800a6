package pdf

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZipPDFs entpackt alle PDF-Dateien eines Archivs in das Zielverzeichnis
// und liefert deren Pfade. Andere Einträge und Pfade, die aus dem Zielverzeichnis
// herausführen würden, werden übersprungen.
func ExtractZipPDFs(zipPath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip %s: %w", zipPath, err)
	}
	defer reader.Close()

	var extracted []string
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".pdf") {
			continue
		}

		cleaned := filepath.Clean(entry.Name)
		if !filepath.IsLocal(cleaned) {
			continue
		}

		destPath := filepath.Join(destDir, cleaned)
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return nil, err
		}
		if err := copyZipEntry(entry, destPath); err != nil {
			return nil, err
		}
		extracted = append(extracted, destPath)
	}
	return extracted, nil
}

func copyZipEntry(entry *zip.File, destPath string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
