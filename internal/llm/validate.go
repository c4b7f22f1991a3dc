package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationIssue reports one rejected candidate with the offending input,
// so callers can log the field and the value that was received.
type ValidationIssue struct {
	Err       error
	Candidate map[string]any
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// MergeResultadoFragments is the explicit post-parse merge pass: when a
// primary candidate (one that carries proprietario_atual) is missing
// resultado_analise, the model may have emitted that sub-record as a
// detached sibling fragment. Each fragment is consumed at most once.
// Candidates are never mutated; merged copies are returned.
func MergeResultadoFragments(cands []map[string]any, logger *slog.Logger) []map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	consumed := make([]bool, len(cands))
	replacement := make(map[int]map[string]any) // primary index -> merged copy
	resultadoSchema := BuildResultadoJSONSchema()

	// fragmentFor finds the first unconsumed sibling holding a resultado
	// sub-record, either wrapped under the key or as the bare object.
	fragmentFor := func(skip int) (map[string]any, int) {
		for j, c := range cands {
			if j == skip || consumed[j] {
				continue
			}
			if _, primary := c["proprietario_atual"]; primary {
				continue
			}
			if wrapped, ok := c["resultado_analise"].(map[string]any); ok {
				return wrapped, j
			}
			if b, err := json.Marshal(c); err == nil {
				if ValidateJSONAgainstSchema(resultadoSchema, b) == nil {
					return c, j
				}
			}
		}
		return nil, -1
	}

	for i, c := range cands {
		_, primary := c["proprietario_atual"]
		_, hasResultado := c["resultado_analise"]
		if !primary || hasResultado {
			continue
		}
		frag, j := fragmentFor(i)
		if frag == nil {
			continue
		}
		merged := make(map[string]any, len(c)+1)
		for k, v := range c {
			merged[k] = v
		}
		merged["resultado_analise"] = frag
		consumed[j] = true
		replacement[i] = merged
		logger.Warn("llm.validate.resultado_merged", "primary", i, "fragment", j)
	}

	out := make([]map[string]any, 0, len(cands))
	for i, c := range cands {
		if consumed[i] {
			continue // folded into a primary record
		}
		if m, ok := replacement[i]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, c)
	}
	return out
}

// ValidateAnalyses validates each candidate independently against the
// analysis schema, after the merge pass. One malformed record never blocks
// the others: failures are returned alongside the successes.
func ValidateAnalyses(cands []map[string]any, logger *slog.Logger) ([]Analise, []ValidationIssue) {
	if logger == nil {
		logger = slog.Default()
	}

	schema := BuildAnalysisJSONSchema()
	merged := MergeResultadoFragments(cands, logger)

	var valid []Analise
	var issues []ValidationIssue
	for i, c := range merged {
		b, err := json.Marshal(c)
		if err != nil {
			issues = append(issues, ValidationIssue{Err: fmt.Errorf("encode candidate: %w", err), Candidate: c})
			continue
		}
		if err := ValidateJSONAgainstSchema(schema, b); err != nil {
			logger.Warn("llm.validate.rejected", "candidate", i, "error", err)
			issues = append(issues, ValidationIssue{Err: err, Candidate: c})
			continue
		}
		var a Analise
		if err := json.Unmarshal(b, &a); err != nil {
			issues = append(issues, ValidationIssue{Err: fmt.Errorf("decode candidate: %w", err), Candidate: c})
			continue
		}
		valid = append(valid, a)
	}

	logger.Debug("llm.validate.done", "candidates", len(merged), "valid", len(valid), "rejected", len(issues))
	return valid, issues
}
