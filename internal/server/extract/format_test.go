package extract

import (
	"testing"

	"github.com/cardsmith/cardsmith/internal/common"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
		err  error
	}{
		{name: "pdf", data: []byte("%PDF-1.7 rest"), want: FormatPDF},
		{name: "png", data: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}, want: FormatPNG},
		{name: "jpeg", data: []byte{0xff, 0xd8, 0xff, 0xe0}, want: FormatJPEG},
		{name: "gif", data: []byte("GIF89a"), want: FormatGIF},
		{name: "empty", data: nil, err: common.ErrEmptyInput},
		{name: "unknown", data: []byte("hello world"), err: common.ErrUnsupportedFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.data)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
