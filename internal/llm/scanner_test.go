package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjects_SkipsMalformedCandidates(t *testing.T) {
	raw := `noise {"a":1} noise {bad json} noise {"b":2}`

	got := ExtractJSONObjects(raw)

	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"a": float64(1)}, got[0])
	assert.Equal(t, map[string]any{"b": float64(2)}, got[1])
}

func TestExtractJSONObjects_BracesInsideStrings(t *testing.T) {
	raw := `prefixo {"obs":"texto com } e { dentro","n":3} sufixo`

	got := ExtractJSONObjects(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "texto com } e { dentro", got[0]["obs"])
	assert.Equal(t, float64(3), got[0]["n"])
}

func TestExtractJSONObjects_EscapedQuotesInsideStrings(t *testing.T) {
	raw := `{"obs":"ele disse \"ok\" e saiu"}`

	got := ExtractJSONObjects(raw)

	require.Len(t, got, 1)
	assert.Equal(t, `ele disse "ok" e saiu`, got[0]["obs"])
}

func TestExtractJSONObjects_NestedObjects(t *testing.T) {
	raw := `Segue a análise: {"proprietario_atual":{"nome_completo":"Maria"},"situacao_imovel":"APTO"} Obrigado!`

	got := ExtractJSONObjects(raw)

	require.Len(t, got, 1)
	prop, ok := got[0]["proprietario_atual"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Maria", prop["nome_completo"])
}

func TestExtractJSONObjects_StrayClosingBraceInProse(t *testing.T) {
	raw := `} prosa solta } {"a":1}`

	got := ExtractJSONObjects(raw)

	require.Len(t, got, 1)
	assert.Equal(t, float64(1), got[0]["a"])
}

func TestExtractJSONObjects_NoCandidates(t *testing.T) {
	assert.Empty(t, ExtractJSONObjects("nenhum JSON por aqui"))
	assert.Empty(t, ExtractJSONObjects(""))
}
