package extract

import (
	"context"
	"strings"

	"github.com/cardsmith/cardsmith/internal/logging"
)

// Sentinel chunks returned when extraction succeeds but recovers no text.
// Downstream stages receive one empty-content unit instead of nothing.
const (
	NoTextInPDF   = "No text found in PDF file"
	NoTextInImage = "No text found in image"
)

// Engine produces raw text from file bytes of one format family.
// Both the PDF text-layer engine and the OCR engine satisfy it.
type Engine interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Extractor detects the input format, runs the matching engine and chunks
// the result.
type Extractor struct {
	pdf       Engine
	image     Engine
	chunkSize int
	logger    logging.Logger
}

// New builds an Extractor with the default engines. A chunkSize of zero
// falls back to DefaultChunkSize.
func New(logger logging.Logger, chunkSize int) *Extractor {
	return NewWithEngines(logger, NewPDFEngine(logger), NewOCREngine(logger), chunkSize)
}

// NewWithEngines builds an Extractor with explicit engines. Tests inject
// fakes here.
func NewWithEngines(logger logging.Logger, pdf, image Engine, chunkSize int) *Extractor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Extractor{pdf: pdf, image: image, chunkSize: chunkSize, logger: logger}
}

// Extract turns raw file bytes into an ordered sequence of text chunks.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]string, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug(ctx, "detected file format", "format", format)

	var (
		text     string
		sentinel string
	)
	switch format {
	case FormatPDF:
		text, err = e.pdf.ExtractText(ctx, data)
		sentinel = NoTextInPDF
	default:
		text, err = e.image.ExtractText(ctx, data)
		sentinel = NoTextInImage
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Warn(ctx, "no text recovered from document", "format", format)
		return []string{sentinel}, nil
	}

	chunks := ChunkWords(text, e.chunkSize)
	e.logger.Info(ctx, "extracted text", "format", format, "chunks", len(chunks))
	return chunks, nil
}
