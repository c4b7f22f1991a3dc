package llm

// BuildAnalysisJSONSchema returns the analysis schema (draft 2020-12 subset)
// as a generic map. We use it locally to validate extracted candidates.
//
// resultado_analise is deliberately NOT required at the top level: the model
// sometimes emits it as a separate JSON fragment, and the validator's merge
// pass recovers it from sibling candidates. data_emissao carries no format
// pattern here: date hygiene is the derived-field calculator's job, and a
// record with a bad date must still survive validation.
func BuildAnalysisJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"proprietario_atual":  proprietarioSchema(),
			"gravames_restricoes": map[string]any{"type": "array", "items": gravameSchema()},
			"observacoes":         map[string]any{"type": "string"},
			"situacao_imovel":     map[string]any{"type": "string", "enum": []string{"APTO", "INAPTO"}},
			"resultado_analise":   BuildResultadoJSONSchema(),
		},
		"required": []string{"proprietario_atual", "gravames_restricoes", "observacoes", "situacao_imovel"},
	}
}

// BuildResultadoJSONSchema is the sub-schema for resultado_analise, also used
// to recognize detached fragments during the merge pass.
func BuildResultadoJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"veredito":                map[string]any{"type": "boolean"},
			"data_emissao":            map[string]any{"type": "string"},
			"vigente_ate":             map[string]any{"type": "string"},
			"prazo_cadeia_sucessoria": map[string]any{"type": []string{"string", "null"}},
		},
		"required": []string{"veredito", "data_emissao"},
	}
}

func proprietarioSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nome_completo":  map[string]any{"type": "string", "minLength": 1},
			"nacionalidade":  map[string]any{"type": "string"},
			"estado_civil":   map[string]any{"type": "string"},
			"profissao":      map[string]any{"type": "string"},
			"documentos_identificacao": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"data_aquisicao": map[string]any{"type": "string"},
		},
		"required": []string{
			"nome_completo", "nacionalidade", "estado_civil",
			"profissao", "documentos_identificacao", "data_aquisicao",
		},
	}
}

func gravameSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tipo":              map[string]any{"type": "string"},
			"data_registro":     map[string]any{"type": "string"},
			"numero_registro":   map[string]any{"type": "string"},
			"detalhes_processo": map[string]any{"type": []string{"string", "null"}},
		},
		"required": []string{"tipo", "data_registro", "numero_registro"},
	}
}
