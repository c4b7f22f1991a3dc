// Package app wires configuration into a runnable analysis pipeline,
// shared by the CLI and the HTTP daemon.
package app

import (
	"fmt"
	"log/slog"

	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm/gemini"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm/openai"
	"github.com/fabriciorodias/matriculas-analyzer/internal/ocr"
	"github.com/fabriciorodias/matriculas-analyzer/internal/pdftext"
)

// BuildProcessor assembles the OCR engine, page extractor, and completion
// backend selected by configuration into one pipeline processor.
func BuildProcessor(cfg *common.Config, logger *slog.Logger) (*analise.Processor, error) {
	var engine ocr.Engine
	switch cfg.OCR.Engine {
	case "vision":
		engine = ocr.NewVisionEngine(ocr.VisionConfig{
			APIKey:  cfg.LLM.OpenAIKey,
			BaseURL: cfg.LLM.OpenAIBaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	case "tesseract":
		engine = ocr.NewTesseractEngine(ocr.TesseractConfig{
			Binary:      cfg.OCR.Tesseract,
			Language:    cfg.OCR.Language,
			TessdataDir: cfg.OCR.TessdataDir,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown OCR engine: %q", cfg.OCR.Engine)
	}

	pageOCR := ocr.NewPageOCR(ocr.Config{
		Pdftoppm: cfg.OCR.Pdftoppm,
		DPI:      cfg.OCR.DPI,
	}, engine, logger)

	extractor := pdftext.NewExtractor(pdftext.Config{
		ScannedWordThreshold: cfg.Analise.ScannedWordThreshold,
	}, pageOCR, logger)

	var backend llm.CompletionBackend
	switch cfg.LLM.Backend {
	case "openai":
		backend = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.OpenAIKey,
			BaseURL:     cfg.LLM.OpenAIBaseURL,
			Model:       cfg.LLM.OpenAIModel,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	case "gemini":
		backend = gemini.NewClient(gemini.Config{
			APIKey:      cfg.LLM.GeminiKey,
			BaseURL:     cfg.LLM.GeminiBaseURL,
			Model:       cfg.LLM.GeminiModel,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown LLM backend: %q", cfg.LLM.Backend)
	}

	return analise.NewProcessor(analise.Config{
		VigenciaDias: cfg.Analise.VigenciaDias,
	}, extractor, backend, logger), nil
}
