package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfDocument adapts ledongthuc's reader to the document interface.
// The reader is known to panic on some malformed files, so every call
// is wrapped in recover and surfaced as an ordinary error.
type pdfDocument struct {
	r *pdf.Reader
}

func (d pdfDocument) NumPages() int {
	return d.r.NumPage()
}

func (d pdfDocument) PageText(index int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic reading page %d: %v", index, rec)
		}
	}()

	p := d.r.Page(index + 1) // reader pages are 1-based
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func openPDF(path string) (doc document, closeDoc func(), err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, closeDoc = nil, nil
			err = fmt.Errorf("panic opening PDF: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return pdfDocument{r: r}, func() { _ = f.Close() }, nil
}
