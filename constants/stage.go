package constants

// Stage is the canonical pipeline stage for one certificate analysis.
type Stage string

// Stable values (surfaced in logs and error messages).
const (
	StageIdle               Stage = "IDLE"
	StageExtracting         Stage = "EXTRACTING"           // pulling page text (native or OCR)
	StagePrompting          Stage = "PROMPTING"            // composing the completion request
	StageAwaitingCompletion Stage = "AWAITING_COMPLETION"  // blocked on the LLM backend
	StageParsing            Stage = "PARSING"              // scanning raw output for JSON
	StageValidating         Stage = "VALIDATING"           // schema validation + merge pass
	StageFinalizing         Stage = "FINALIZING"           // derived dates, result assembly
	StageDone               Stage = "DONE"
	StageFailed             Stage = "FAILED"
)

// Describe maps a stage to the reviewer-facing hint shown when a run fails there.
func Describe(s Stage) string {
	switch s {
	case StageExtracting:
		return "falha ao ler o PDF; envie um arquivo legível (não protegido e não corrompido)"
	case StageAwaitingCompletion:
		return "o serviço de análise está indisponível no momento; tente novamente em instantes"
	case StageParsing, StageValidating:
		return "a resposta do serviço de análise não pôde ser interpretada; tente novamente"
	default:
		return "falha inesperada durante a análise"
	}
}
