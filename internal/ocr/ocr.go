package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Engine converts one rendered page image into plain text.
// Implementations: TesseractEngine (local) and VisionEngine (remote model).
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
}

// PageOCR renders a single PDF page to an image and hands it to an Engine.
// Temp images live only for the duration of one RecognizePage call.
type PageOCR struct {
	cfg    Config
	runner Runner
	engine Engine
	logger *slog.Logger
}

func NewPageOCR(cfg Config, engine Engine, logger *slog.Logger) *PageOCR {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &PageOCR{cfg: cfg, runner: execRunner{}, engine: engine, logger: logger}
}

// RecognizePage OCRs the page at index (0-based). Internal failures come back
// as an empty string, not an error; only context cancellation propagates.
func (p *PageOCR) RecognizePage(ctx context.Context, pdfPath string, index int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "ma-pp-*")
	if err != nil {
		p.logger.Warn("ocr.render.tmpdir_failed", "error", err)
		return "", nil
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			p.logger.Warn("ocr.render.cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	img, err := p.renderPage(ctx, pdfPath, index, tmpDir)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.logger.Warn("ocr.render.failed", "path", pdfPath, "page", index, "error", err)
		return "", nil
	}

	text, err := p.engine.Recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		p.logger.Warn("ocr.engine.failed", "path", pdfPath, "page", index, "error", err)
		return "", nil
	}
	return text, nil
}

// renderPage runs pdftoppm for exactly one page and returns the produced PNG path.
func (p *PageOCR) renderPage(ctx context.Context, pdfPath string, index int, tmpDir string) (string, error) {
	prefix := filepath.Join(tmpDir, "page")
	pageNo := fmt.Sprintf("%d", index+1) // pdftoppm pages are 1-based

	// pdftoppm -f N -l N -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm,
		"-f", pageNo, "-l", pageNo,
		"-r", fmt.Sprintf("%d", p.cfg.DPI),
		"-png", pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", index+1)
	}
	return matches[0], nil
}
