package pdf

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Auflösung wie beim Rastern der Originalseiten.
const renderDPI = 72

// Renderer rastert PDF-Seiten zu PNG-Bildern. Seitenangaben sind 1-basiert
// und inklusiv; endPage 0 steht für die letzte Seite.
type Renderer interface {
	PageCount(path string) (int, error)
	RenderPages(path string, startPage, endPage int) ([][]byte, error)
}

// FitzRenderer rendert über MuPDF.
type FitzRenderer struct{}

func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

func (r *FitzRenderer) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

func (r *FitzRenderer) RenderPages(path string, startPage, endPage int) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer doc.Close()

	if endPage == 0 || endPage > doc.NumPage() {
		endPage = doc.NumPage()
	}
	if startPage < 1 {
		startPage = 1
	}

	var pages [][]byte
	for pageNum := startPage - 1; pageNum < endPage; pageNum++ {
		img, err := doc.ImagePNG(pageNum, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d of %s: %w", pageNum+1, path, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// EncodeImageToBase64 kodiert Bildbytes als Base64-String.
func EncodeImageToBase64(imageBytes []byte) string {
	return base64.StdEncoding.EncodeToString(imageBytes)
}

// SavePageImage legt die Seitenkopie unter page_pictures/ im Reportverzeichnis ab
// und liefert den Pfad der geschriebenen Datei.
func SavePageImage(base64Image, originalFileName string, pageNumber int, reportDir string) (string, error) {
	outputFolder := filepath.Join(reportDir, "page_pictures")
	if err := os.MkdirAll(outputFolder, 0755); err != nil {
		return "", err
	}

	imageData, err := base64.StdEncoding.DecodeString(base64Image)
	if err != nil {
		return "", fmt.Errorf("failed to decode page image: %w", err)
	}

	savePath := filepath.Join(outputFolder, fmt.Sprintf("%s_page%d.png", originalFileName, pageNumber))
	if err := os.WriteFile(savePath, imageData, 0644); err != nil {
		return "", err
	}
	return savePath, nil
}
