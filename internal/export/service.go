package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
)

// Service produces XLSX bytes from a finished analysis, in the layout the
// credit-ops reviewers work with: a summary block followed by one row per
// gravame.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportAnaliseXLSX returns an XLSX workbook (as bytes) for one result.
func (s *Service) ExportAnaliseXLSX(res *analise.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Análise"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 1
	kv := func(label string, v any) {
		write(1, row, label)
		write(2, row, v)
		row++
	}

	kv("ID da Análise", res.ID.String())
	kv("Gerado em", res.CreatedAt.Format("2006-01-02 15:04"))

	if res.Empty || res.Analise == nil {
		kv("Resultado", "Sem registros válidos extraídos do documento")
		return toBytes(f)
	}

	a := res.Analise
	kv("Situação do Imóvel", a.SituacaoImovel)
	kv("Proprietário Atual", a.ProprietarioAtual.NomeCompleto)
	kv("Estado Civil", a.ProprietarioAtual.EstadoCivil)
	kv("Profissão", a.ProprietarioAtual.Profissao)
	kv("Data de Aquisição", a.ProprietarioAtual.DataAquisicao)
	kv("Data de Emissão", a.ResultadoAnalise.DataEmissao)
	kv("Vigente Até", a.ResultadoAnalise.VigenteAte)
	kv("Prazo Cadeia Sucessória", a.ResultadoAnalise.PrazoCadeiaSucessoria)
	kv("Observações", a.Observacoes)

	row++
	headers := []string{"Tipo", "Data de Registro", "Número do Registro", "Detalhes do Processo"}
	for i, h := range headers {
		write(i+1, row, h)
	}
	row++

	for _, g := range a.GravamesRestricoes {
		write(1, row, g.Tipo)
		write(2, row, g.DataRegistro)
		write(3, row, g.NumeroRegistro)
		if g.DetalhesProcesso != nil {
			write(4, row, *g.DetalhesProcesso)
		}
		row++
	}

	b, err := toBytes(f)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("export.xlsx.ok",
		"analysis_id", res.ID,
		"gravames", len(a.GravamesRestricoes),
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
