package extract

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cardsmith/cardsmith/internal/common"
	"github.com/cardsmith/cardsmith/internal/logging"
)

// PDFEngine extracts the embedded text layer of a PDF by shelling out to the
// poppler utilities (pdfinfo for the page count, pdftotext per page). Pages
// that fail individually are skipped; a document whose structure cannot be
// read at all is reported as corrupt.
type PDFEngine struct {
	logger logging.Logger

	checkOnce sync.Once
	checkErr  error
}

// NewPDFEngine constructs the text-layer engine.
func NewPDFEngine(logger logging.Logger) *PDFEngine {
	return &PDFEngine{logger: logger}
}

// checkInstallation verifies the poppler binaries lazily, before first use.
// The result is cached for the process lifetime.
func (e *PDFEngine) checkInstallation(ctx context.Context) error {
	e.checkOnce.Do(func() {
		for _, bin := range []string{"pdfinfo", "pdftotext"} {
			if _, err := exec.LookPath(bin); err != nil {
				e.checkErr = fmt.Errorf("%w: %s is not installed or not in PATH", common.ErrDependencyUnavailable, bin)
				return
			}
		}
		probe, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := exec.CommandContext(probe, "pdftotext", "-v").Run(); err != nil {
			e.checkErr = fmt.Errorf("%w: pdftotext is installed but not functioning: %v", common.ErrDependencyUnavailable, err)
		}
	})
	return e.checkErr
}

// ExtractText extracts visible text from every page in order. Unreadable
// pages are logged and skipped; they are not fatal.
func (e *PDFEngine) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := e.checkInstallation(ctx); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", common.ErrEmptyInput
	}

	f, err := os.CreateTemp("", "cardsmith-*.pdf")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("temp file: %w", err)
	}
	f.Close()

	pages, err := e.pageCount(ctx, f.Name())
	if err != nil {
		return "", fmt.Errorf("%w: invalid or corrupted PDF: %v", common.ErrCorruptInput, err)
	}

	var full strings.Builder
	for page := 1; page <= pages; page++ {
		out, err := runPDFToText(ctx, f.Name(), page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			e.logger.Warn(ctx, "failed to extract text from PDF page", "page", page, "error", err)
			continue
		}
		full.Write(out)
	}
	return full.String(), nil
}

// Seams for the poppler invocations, stubbed in tests.
var (
	runPDFInfo = func(ctx context.Context, path string) ([]byte, error) {
		return exec.CommandContext(ctx, "pdfinfo", path).Output()
	}
	runPDFToText = func(ctx context.Context, path string, page int) ([]byte, error) {
		return exec.CommandContext(ctx, "pdftotext",
			"-f", strconv.Itoa(page), "-l", strconv.Itoa(page), path, "-").Output()
	}
)

func (e *PDFEngine) pageCount(ctx context.Context, path string) (int, error) {
	out, err := runPDFInfo(ctx, path)
	if err != nil {
		return 0, err
	}
	return parsePageCount(out)
}

// parsePageCount finds the "Pages:" line in pdfinfo output.
func parsePageCount(out []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("unparsable page count: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("no page count in pdfinfo output")
}
