package ocr

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// base render resolution of a PDF page; multiplied by the raster scale
const basePageDPI = 72.0

type tesseractEngine struct {
	scale  float64
	logger *logger_i.Logger
}

func NewTesseractEngine() Engine {
	return &tesseractEngine{
		scale:  config.OCRRasterScale,
		logger: logger_i.NewLogger("OCR"),
	}
}

// RecognizePage renders the page to a PNG at the configured scale and runs
// tesseract over it. The raster never leaves this method.
func (e *tesseractEngine) RecognizePage(ctx context.Context, raw []byte, pageIndex int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", fmt.Errorf("failed to open document for rasterization: %w", err)
	}
	defer doc.Close()

	png, err := doc.ImagePNG(pageIndex, basePageDPI*e.scale)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize page %d: %w", pageIndex, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	//single uniform block of text, same segmentation the scanned-page corpus was tuned on
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load raster into tesseract: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		e.logger.Error("tesseract recognition failed", "page", pageIndex, "error", err)
		return "", fmt.Errorf("ocr failed on page %d: %w", pageIndex, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}
