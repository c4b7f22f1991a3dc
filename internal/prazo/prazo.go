// Package prazo computes the derived date fields of an analysis: the
// certificate validity window and the succession-chain durations. Dates come
// from model output and are treated as untrusted; any parse failure degrades
// to sentinel values instead of an error, so a partially-analyzable document
// still yields a displayable result.
package prazo

import (
	"fmt"
	"strings"
	"time"
)

// DataInvalida is the sentinel substituted for both derived date fields when
// data_emissao is missing, "N/A", or not YYYY-MM-DD.
const DataInvalida = "Data de emissão inválida"

const (
	dateLayout = "2006-01-02"

	// DefaultVigenciaDias is the policy default for certificate validity.
	DefaultVigenciaDias = 180
)

// Derived holds the computed date fields for one analysis.
type Derived struct {
	Valida      bool   // whether data_emissao parsed
	DataEmissao string // echoed when valid, sentinel otherwise
	VigenteAte  string // data_emissao + window, or sentinel
	Prazos      []int  // days between data_emissao and each ancestor issue date
}

// Compute derives the validity expiration and succession-chain day counts.
// anteriores are the issue dates of prior certificates in the chain;
// unparseable entries are skipped rather than failing the whole computation.
func Compute(dataEmissao string, vigenciaDias int, anteriores []string) Derived {
	if vigenciaDias <= 0 {
		vigenciaDias = DefaultVigenciaDias
	}

	emissao, err := ParseDate(dataEmissao)
	if err != nil {
		return Derived{
			Valida:      false,
			DataEmissao: DataInvalida,
			VigenteAte:  DataInvalida,
		}
	}

	d := Derived{
		Valida:      true,
		DataEmissao: emissao.Format(dateLayout),
		VigenteAte:  emissao.AddDate(0, 0, vigenciaDias).Format(dateLayout),
	}

	for _, a := range anteriores {
		anterior, err := ParseDate(a)
		if err != nil {
			continue
		}
		days := int(emissao.Sub(anterior).Hours() / 24)
		d.Prazos = append(d.Prazos, days)
	}
	return d
}

// ParseDate parses a strict YYYY-MM-DD date, rejecting empty and "N/A".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return time.Time{}, fmt.Errorf("missing date")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a YYYY-MM-DD date: %q", s)
	}
	return t, nil
}

// DescrevePrazos renders the succession-chain day counts for display
// ("245 dias; 1022 dias"). Returns the sentinel when the issue date was
// invalid and the empty string when no chain dates were computable.
func (d Derived) DescrevePrazos() string {
	if !d.Valida {
		return DataInvalida
	}
	if len(d.Prazos) == 0 {
		return ""
	}
	parts := make([]string, len(d.Prazos))
	for i, p := range d.Prazos {
		parts[i] = fmt.Sprintf("%d dias", p)
	}
	return strings.Join(parts, "; ")
}
