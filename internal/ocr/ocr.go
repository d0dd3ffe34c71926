package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sozercan/screenai/internal/config"
)

var (
	ErrNoText    = errors.New("no text detected")
	ErrOCRFailed = errors.New("OCR failed")
)

// Tesseract extracts text by piping a decoded image into the tesseract CLI.
type Tesseract struct {
	path string
	psm  int
}

func NewTesseract(cfg config.OCRConfig) (*Tesseract, error) {
	if cfg.TesseractPath == "" {
		return nil, fmt.Errorf("tesseract path cannot be empty")
	}
	return &Tesseract{
		path: cfg.TesseractPath,
		psm:  cfg.PSM,
	}, nil
}

// Extract returns the trimmed text found in the image at imagePath, or
// ErrNoText when the engine recognised nothing.
func (t *Tesseract) Extract(ctx context.Context, imagePath string) (string, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open image: %v", ErrOCRFailed, err)
	}

	var input bytes.Buffer
	if err := imaging.Encode(&input, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("%w: failed to encode image: %v", ErrOCRFailed, err)
	}

	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout", "--psm", strconv.Itoa(t.psm))
	cmd.Stdin = &input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v: %s", ErrOCRFailed, err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNoText
	}

	slog.Debug("OCR completed", "chars", len(text))
	return text, nil
}
