package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCandidateJSON = `{
  "proprietario_atual": {
    "nome_completo": "Maria da Silva",
    "nacionalidade": "brasileira",
    "estado_civil": "casada",
    "profissao": "engenheira",
    "documentos_identificacao": ["CPF 111.222.333-44"],
    "data_aquisicao": "2020-05-10"
  },
  "gravames_restricoes": [],
  "observacoes": "Nenhuma restrição localizada.",
  "situacao_imovel": "APTO",
  "resultado_analise": {
    "veredito": true,
    "data_emissao": "2024-01-01",
    "vigente_ate": "",
    "prazo_cadeia_sucessoria": null
  }
}`

func candidate(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestValidateAnalyses_PartialSuccess(t *testing.T) {
	good := candidate(t, validCandidateJSON)
	bad := candidate(t, validCandidateJSON)
	delete(bad["proprietario_atual"].(map[string]any), "nome_completo")

	valid, issues := ValidateAnalyses([]map[string]any{good, bad}, nil)

	require.Len(t, valid, 1)
	require.Len(t, issues, 1)
	assert.Equal(t, "Maria da Silva", valid[0].ProprietarioAtual.NomeCompleto)
	assert.Equal(t, "APTO", valid[0].SituacaoImovel)
	assert.Error(t, issues[0].Err)
}

func TestValidateAnalyses_RejectsUnknownSituacao(t *testing.T) {
	c := candidate(t, validCandidateJSON)
	c["situacao_imovel"] = "TALVEZ"

	valid, issues := ValidateAnalyses([]map[string]any{c}, nil)

	assert.Empty(t, valid)
	require.Len(t, issues, 1)
}

func TestValidateAnalyses_RoundTrip(t *testing.T) {
	detalhes := "Processo 0001234-56.2023.8.26.0100"
	a := Analise{
		ProprietarioAtual: ProprietarioAtual{
			NomeCompleto:            "João Souza",
			Nacionalidade:           "brasileiro",
			EstadoCivil:             "solteiro",
			Profissao:               "advogado",
			DocumentosIdentificacao: []string{"RG 12.345.678-9"},
			DataAquisicao:           "2019-03-01",
		},
		GravamesRestricoes: []GravameRestricao{{
			Tipo:             "penhora",
			DataRegistro:     "2023-07-15",
			NumeroRegistro:   "AV-12",
			DetalhesProcesso: &detalhes,
		}},
		Observacoes:    "Penhora vigente.",
		SituacaoImovel: "INAPTO",
		ResultadoAnalise: ResultadoAnalise{
			Veredito:    false,
			DataEmissao: "2024-02-10",
		},
	}

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NoError(t, ValidateJSONAgainstSchema(BuildAnalysisJSONSchema(), b))
}

func TestMergeResultadoFragments_WrappedFragment(t *testing.T) {
	primary := candidate(t, validCandidateJSON)
	delete(primary, "resultado_analise")
	frag := candidate(t, `{"resultado_analise":{"veredito":true,"data_emissao":"2024-01-01"}}`)

	merged := MergeResultadoFragments([]map[string]any{primary, frag}, nil)

	require.Len(t, merged, 1)
	res, ok := merged[0]["resultado_analise"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", res["data_emissao"])
	// original candidate untouched
	assert.NotContains(t, primary, "resultado_analise")
}

func TestMergeResultadoFragments_BareFragment(t *testing.T) {
	primary := candidate(t, validCandidateJSON)
	delete(primary, "resultado_analise")
	frag := candidate(t, `{"veredito":false,"data_emissao":"2024-03-03"}`)

	valid, issues := ValidateAnalyses([]map[string]any{primary, frag}, nil)

	assert.Empty(t, issues)
	require.Len(t, valid, 1)
	assert.Equal(t, "2024-03-03", valid[0].ResultadoAnalise.DataEmissao)
}

func TestMergeResultadoFragments_FragmentConsumedOnce(t *testing.T) {
	p1 := candidate(t, validCandidateJSON)
	delete(p1, "resultado_analise")
	p2 := candidate(t, validCandidateJSON)
	delete(p2, "resultado_analise")
	frag := candidate(t, `{"veredito":true,"data_emissao":"2024-01-01"}`)

	merged := MergeResultadoFragments([]map[string]any{p1, p2, frag}, nil)

	require.Len(t, merged, 2)
	assert.Contains(t, merged[0], "resultado_analise")
	assert.NotContains(t, merged[1], "resultado_analise")
}

func TestMergeResultadoFragments_NoFragmentNoChange(t *testing.T) {
	primary := candidate(t, validCandidateJSON)
	delete(primary, "resultado_analise")

	merged := MergeResultadoFragments([]map[string]any{primary}, nil)

	require.Len(t, merged, 1)
	assert.NotContains(t, merged[0], "resultado_analise")
}
