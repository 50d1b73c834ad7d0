package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/cardsmith/cardsmith/internal/common"
	"github.com/cardsmith/cardsmith/internal/logging"
)

// ocrConfig tunes tesseract for block text: OCR engine mode 3 (default,
// LSTM-based) and page segmentation mode 6 (a single uniform block).
var ocrConfig = []string{"--oem", "3", "--psm", "6"}

// OCREngine recognizes text in raster images by shelling out to tesseract.
// Images are normalized first: any alpha channel is flattened onto a white
// background, since transparent regions confuse recognition.
type OCREngine struct {
	logger logging.Logger

	checkOnce sync.Once
	checkErr  error
}

// NewOCREngine constructs the optical-character-recognition engine.
func NewOCREngine(logger logging.Logger) *OCREngine {
	return &OCREngine{logger: logger}
}

// checkInstallation verifies the tesseract binary lazily, before first use.
func (e *OCREngine) checkInstallation(ctx context.Context) error {
	e.checkOnce.Do(func() {
		if _, err := exec.LookPath("tesseract"); err != nil {
			e.checkErr = fmt.Errorf("%w: tesseract is not installed or not in PATH", common.ErrDependencyUnavailable)
			return
		}
		probe, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := exec.CommandContext(probe, "tesseract", "--version").Run(); err != nil {
			e.checkErr = fmt.Errorf("%w: tesseract is installed but not functioning: %v", common.ErrDependencyUnavailable, err)
		}
	})
	return e.checkErr
}

// ExtractText runs OCR over the image and returns the recognized text.
func (e *OCREngine) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := e.checkInstallation(ctx); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", common.ErrEmptyInput
	}

	normalized, err := normalizeImage(data)
	if err != nil {
		return "", fmt.Errorf("%w: cannot decode image: %v", common.ErrCorruptInput, err)
	}

	cmd := exec.CommandContext(ctx, "tesseract", append([]string{"stdin", "stdout"}, ocrConfig...)...)
	cmd.Stdin = bytes.NewReader(normalized)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ocr failed: %w", err)
	}
	return string(out), nil
}

// normalizeImage decodes any supported image and re-encodes it as PNG with
// the alpha channel flattened onto a white background.
func normalizeImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
