package analise

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fabriciorodias/matriculas-analyzer/constants"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm"
	"github.com/fabriciorodias/matriculas-analyzer/internal/pdftext"
	"github.com/fabriciorodias/matriculas-analyzer/internal/prazo"
)

// PageExtractor is the document→text boundary. Satisfied by pdftext.Extractor.
type PageExtractor interface {
	Extract(ctx context.Context, path string, progress pdftext.Progress) ([]pdftext.PageFragment, bool, error)
}

type Config struct {
	VigenciaDias int // validity window applied to data_emissao, default 180
}

// Processor runs the certificate pipeline end to end for one document:
// extract → prompt → complete → parse → validate → finalize. It holds no
// per-run state, so one Processor serves concurrent analyses as long as each
// call gets its own document.
type Processor struct {
	logger  *slog.Logger
	pages   PageExtractor
	backend llm.CompletionBackend
	cfg     Config
}

func NewProcessor(cfg Config, pages PageExtractor, backend llm.CompletionBackend, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.VigenciaDias <= 0 {
		cfg.VigenciaDias = prazo.DefaultVigenciaDias
	}
	return &Processor{logger: logger, pages: pages, backend: backend, cfg: cfg}
}

// Analyze runs the full pipeline for the PDF at path. Component failures with
// no safe default (unreadable PDF, unreachable backend) return a StageError;
// empty/invalid model output and date problems degrade into the Result.
func (p *Processor) Analyze(ctx context.Context, path string, progress pdftext.Progress) (*Result, error) {
	id := uuid.New()
	start := time.Now()
	stage := constants.StageIdle
	advance := func(next constants.Stage) {
		p.logger.Debug("pipeline.stage", "analysis_id", id, "from", stage, "to", next)
		stage = next
	}

	p.logger.Info("pipeline.run.start", "analysis_id", id, "path", path)

	advance(constants.StageExtracting)
	frags, scanned, err := p.pages.Extract(ctx, path, progress)
	if err != nil {
		return nil, p.fail(id, stage, start, err)
	}

	advance(constants.StagePrompting)
	prompt := llm.BuildAnalysisPrompt(pdftext.JoinPages(frags))

	advance(constants.StageAwaitingCompletion)
	rawOut, err := p.backend.Complete(ctx, prompt)
	if err != nil {
		return nil, p.fail(id, stage, start, err)
	}

	advance(constants.StageParsing)
	cands := llm.ExtractJSONObjects(rawOut)
	if len(cands) == 0 {
		// malformed model output is not an error: surface an empty result
		p.logger.Warn("pipeline.no_candidates", "analysis_id", id, "raw_len", len(rawOut))
		return p.emptyResult(id, start, scanned, len(frags), nil), nil
	}

	advance(constants.StageValidating)
	valid, rejected := llm.ValidateAnalyses(cands, p.logger)
	issues := make([]string, 0, len(rejected))
	for _, r := range rejected {
		issues = append(issues, r.Err.Error())
	}
	if len(valid) == 0 {
		p.logger.Warn("pipeline.no_valid_records", "analysis_id", id, "rejected", len(rejected))
		return p.emptyResult(id, start, scanned, len(frags), issues), nil
	}

	advance(constants.StageFinalizing)
	analise := valid[0]
	p.finalize(&analise)

	advance(constants.StageDone)
	res := &Result{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Analise:   &analise,
		Issues:    issues,
		Scanned:   scanned,
		Pages:     len(frags),
		Stage:     constants.StageDone,
		ElapsedMS: time.Since(start).Milliseconds(),
	}

	p.logger.Info("pipeline.run.ok",
		"analysis_id", id,
		"situacao", analise.SituacaoImovel,
		"gravames", len(analise.GravamesRestricoes),
		"scanned", scanned,
		"pages", len(frags),
		"rejected", len(rejected),
		"elapsed_ms", res.ElapsedMS,
	)
	return res, nil
}

// finalize recomputes the derived date fields from the untrusted
// data_emissao (vigente_ate never comes from the model) and aligns the
// verdict with the situacao_imovel classification.
func (p *Processor) finalize(a *llm.Analise) {
	var anteriores []string
	if a.ProprietarioAtual.DataAquisicao != "" {
		anteriores = append(anteriores, a.ProprietarioAtual.DataAquisicao)
	}

	d := prazo.Compute(a.ResultadoAnalise.DataEmissao, p.cfg.VigenciaDias, anteriores)
	a.ResultadoAnalise.DataEmissao = d.DataEmissao
	a.ResultadoAnalise.VigenteAte = d.VigenteAte
	a.ResultadoAnalise.PrazoCadeiaSucessoria = d.DescrevePrazos()
	a.ResultadoAnalise.Veredito = a.SituacaoImovel == constants.SituacaoApto
}

func (p *Processor) emptyResult(id uuid.UUID, start time.Time, scanned bool, pages int, issues []string) *Result {
	return &Result{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Empty:     true,
		Issues:    issues,
		Scanned:   scanned,
		Pages:     pages,
		Stage:     constants.StageDone,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
}

func (p *Processor) fail(id uuid.UUID, stage constants.Stage, start time.Time, err error) error {
	p.logger.Error("pipeline.run.failed",
		"analysis_id", id,
		"stage", stage,
		"error", err,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return common.NewStageError(stage, err)
}
