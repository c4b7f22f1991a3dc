package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
)

// Source records which path produced a page's text.
type Source string

const (
	SourceNative Source = "native"
	SourceOCR    Source = "ocr"
)

// PageFragment is one page of extracted certificate text, in document order.
type PageFragment struct {
	Index  int
	Text   string
	Source Source
}

// Progress reports extraction progress as pages completed out of total.
type Progress func(done, total int)

// PageReader is the OCR fallback: one page of a PDF to text.
// Satisfied by ocr.PageOCR.
type PageReader interface {
	RecognizePage(ctx context.Context, pdfPath string, index int) (string, error)
}

type Config struct {
	// First-page word count below which the WHOLE document is routed
	// through OCR. The classification is made once per document, never
	// per page. Default 100.
	ScannedWordThreshold int
}

type Extractor struct {
	cfg      Config
	fallback PageReader
	logger   *slog.Logger

	// open is swapped in tests to avoid real PDF fixtures.
	open func(path string) (document, func(), error)
}

// document is the minimal native text-layer surface the extractor needs.
type document interface {
	NumPages() int
	PageText(index int) (string, error)
}

func NewExtractor(cfg Config, fallback PageReader, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ScannedWordThreshold <= 0 {
		cfg.ScannedWordThreshold = 100
	}
	return &Extractor{cfg: cfg, fallback: fallback, logger: logger, open: openPDF}
}

// Extract reads every page of the PDF at path, deciding once from the first
// page's native text whether the document is scanned. Scanned documents route
// every page through the OCR fallback; otherwise every page uses the text
// layer. Returns the ordered fragments and the scanned classification.
func (e *Extractor) Extract(ctx context.Context, path string, progress Progress) ([]PageFragment, bool, error) {
	start := time.Now()

	doc, closeDoc, err := e.open(path)
	if err != nil {
		return nil, false, common.WrapError(common.ErrInvalidPDF, err.Error())
	}
	defer closeDoc()

	total := doc.NumPages()
	if total < 1 {
		return nil, false, common.WrapError(common.ErrInvalidPDF, "document has no pages")
	}

	firstText, err := doc.PageText(0)
	if err != nil {
		e.logger.Warn("pdftext.first_page_unreadable", "path", path, "error", err)
		firstText = ""
	}
	scanned := len(strings.Fields(firstText)) < e.cfg.ScannedWordThreshold

	e.logger.Info("pdftext.classified",
		"path", path,
		"pages", total,
		"scanned", scanned,
		"first_page_words", len(strings.Fields(firstText)),
	)

	frags := make([]PageFragment, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, scanned, err
		}

		var text string
		src := SourceNative
		if scanned {
			src = SourceOCR
			text, err = e.fallback.RecognizePage(ctx, path, i)
			if err != nil {
				return nil, scanned, err // only cancellation escapes the OCR boundary
			}
		} else if i == 0 {
			text = firstText
		} else {
			text, err = doc.PageText(i)
			if err != nil {
				// a single unreadable page degrades to empty text, the
				// rest of the document is still analyzable
				e.logger.Warn("pdftext.page_unreadable", "path", path, "page", i, "error", err)
				text = ""
			}
		}

		frags = append(frags, PageFragment{Index: i, Text: text, Source: src})
		if progress != nil {
			progress(i+1, total)
		}
	}

	e.logger.Debug("pdftext.extract_done",
		"path", path,
		"pages", total,
		"scanned", scanned,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return frags, scanned, nil
}

// JoinPages concatenates fragments with the page-boundary markers the prompt
// relies on for provenance ("--- PAGE 0 ---", page indices are zero-based).
func JoinPages(frags []PageFragment) string {
	var b strings.Builder
	b.WriteString("--- START OF PDF ---")
	for _, f := range frags {
		b.WriteString(fmt.Sprintf("\n--- PAGE %d ---\n", f.Index))
		b.WriteString(f.Text)
	}
	return b.String()
}
