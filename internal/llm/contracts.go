package llm

import "context"

// CompletionBackend is the single contract the pipeline depends on: one
// prompt in, the model's raw text out. Retries, if any, belong to the caller.
type CompletionBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProprietarioAtual is the current owner block of an analysis.
// Every field is required by the schema.
type ProprietarioAtual struct {
	NomeCompleto            string   `json:"nome_completo"`
	Nacionalidade           string   `json:"nacionalidade"`
	EstadoCivil             string   `json:"estado_civil"`
	Profissao               string   `json:"profissao"`
	DocumentosIdentificacao []string `json:"documentos_identificacao"`
	DataAquisicao           string   `json:"data_aquisicao"`
}

// GravameRestricao is one encumbrance (hipoteca, penhora, arresto, ...)
// recorded against the property.
type GravameRestricao struct {
	Tipo             string  `json:"tipo"`
	DataRegistro     string  `json:"data_registro"`
	NumeroRegistro   string  `json:"numero_registro"`
	DetalhesProcesso *string `json:"detalhes_processo"`
}

// ResultadoAnalise carries the verdict and the date fields. data_emissao
// originates from the model and is untrusted input; vigente_ate and
// prazo_cadeia_sucessoria are recomputed after validation.
type ResultadoAnalise struct {
	Veredito              bool   `json:"veredito"`
	DataEmissao           string `json:"data_emissao"` // YYYY-MM-DD
	VigenteAte            string `json:"vigente_ate"`  // YYYY-MM-DD
	PrazoCadeiaSucessoria string `json:"prazo_cadeia_sucessoria"`
}

// Analise is the normalized shape we want from the LLM for one certificate.
type Analise struct {
	ProprietarioAtual  ProprietarioAtual  `json:"proprietario_atual"`
	GravamesRestricoes []GravameRestricao `json:"gravames_restricoes"`
	Observacoes        string             `json:"observacoes"`
	SituacaoImovel     string             `json:"situacao_imovel"` // APTO | INAPTO
	ResultadoAnalise   ResultadoAnalise   `json:"resultado_analise"`
}
