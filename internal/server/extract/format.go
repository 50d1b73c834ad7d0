// Package extract turns uploaded document bytes into bounded text chunks.
// It detects the format from the leading byte signature, delegates to a
// text-layer engine (PDF) or an OCR engine (raster images), and splits the
// recovered text into fixed-size word chunks for the generation stage.
package extract

import (
	"bytes"
	"fmt"

	"github.com/cardsmith/cardsmith/internal/common"
)

// Format is a detected input file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
)

var magicNumbers = []struct {
	prefix []byte
	format Format
}{
	{[]byte("%PDF"), FormatPDF},
	{[]byte{0x89, 'P', 'N', 'G'}, FormatPNG},
	{[]byte{0xff, 0xd8, 0xff}, FormatJPEG},
	{[]byte("GIF"), FormatGIF},
}

// DetectFormat identifies the file format from its leading byte signature.
// Empty input yields common.ErrEmptyInput; an unrecognized signature yields
// common.ErrUnsupportedFormat.
func DetectFormat(data []byte) (Format, error) {
	if len(data) == 0 {
		return "", common.ErrEmptyInput
	}
	for _, m := range magicNumbers {
		if bytes.HasPrefix(data, m.prefix) {
			return m.format, nil
		}
	}
	return "", fmt.Errorf("%w: only PDF, PNG, JPEG and GIF are supported", common.ErrUnsupportedFormat)
}
