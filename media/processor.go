package media

import (
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailSize          = 150
	ThumbnailJpegQuality   = 85
	ThumbnailFileExtension = ".jpg"

	WebMaxSize       = 800
	WebJpegQuality   = 85
	WebFileExtension = ".jpg"
)

// Processor derives the thumbnail and web versions of uploaded photos. it
// relies on a Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GenerateThumbnail produces a square center-cropped thumbnail and saves it
// under the thumbnail asset directory as <storage name>.jpg. returns the
// relative path to the saved file.
func (p *Processor) GenerateThumbnail(original image.Image, filename string) (string, error) {
	thumb := imaging.Fill(original, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)
	return p.encodeAndSave(thumb, AssetTypeThumbnail, swapExtension(filename, ThumbnailFileExtension), ThumbnailJpegQuality)
}

// GenerateWebVersion produces a web-sized rendition bounded by WebMaxSize on
// the longest side. images already small enough are saved unscaled.
func (p *Processor) GenerateWebVersion(original image.Image, filename string) (string, error) {
	bounds := original.Bounds()
	web := original
	if bounds.Dx() > WebMaxSize || bounds.Dy() > WebMaxSize {
		web = imaging.Fit(original, WebMaxSize, WebMaxSize, imaging.Lanczos)
	}
	return p.encodeAndSave(web, AssetTypeWeb, swapExtension(filename, WebFileExtension), WebJpegQuality)
}

// swapExtension replaces the filename's extension; derived versions are
// always JPEG regardless of the original's format.
func swapExtension(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func (p *Processor) encodeAndSave(img image.Image, assetType AssetType, filename string, quality int) (string, error) {
	reader, writer := io.Pipe()

	go func() {
		err := imaging.Encode(writer, img, imaging.JPEG, imaging.JPEGQuality(quality))
		if err != nil {
			log.Printf("processor: Failed to encode %s version: %v", assetType, err)
			writer.CloseWithError(fmt.Errorf("%s encoding failed: %w", assetType, err))
			return
		}
		writer.Close()
	}()

	relPath, err := p.store.Save(assetType, filename, reader)
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to save %s version of %s: %w", assetType, filename, err)
	}
	return relPath, nil
}
