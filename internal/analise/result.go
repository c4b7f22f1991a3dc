package analise

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabriciorodias/matriculas-analyzer/constants"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm"
)

// Result is the terminal artifact of one certificate analysis. Immutable
// once constructed; nothing outside the producing run should mutate it.
type Result struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Analise is nil when the model produced no valid record; the run still
	// completes with Empty set instead of failing.
	Analise *llm.Analise `json:"analise,omitempty"`
	Empty   bool         `json:"empty"`

	// Issues lists per-candidate validation errors for records that were
	// rejected; valid records are unaffected by them.
	Issues []string `json:"issues,omitempty"`

	Scanned   bool            `json:"scanned"`
	Pages     int             `json:"pages"`
	Stage     constants.Stage `json:"stage"`
	ElapsedMS int64           `json:"elapsed_ms"`
}
