package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriciorodias/matriculas-analyzer/constants"
	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/export"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm"
	"github.com/fabriciorodias/matriculas-analyzer/internal/pdftext"
)

type fakeAnalyzer struct {
	res     *analise.Result
	err     error
	gotPath string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, path string, _ pdftext.Progress) (*analise.Result, error) {
	f.gotPath = path
	return f.res, f.err
}

func sampleResult() *analise.Result {
	return &analise.Result{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Analise: &llm.Analise{
			ProprietarioAtual: llm.ProprietarioAtual{
				NomeCompleto:            "Maria da Silva",
				Nacionalidade:           "brasileira",
				EstadoCivil:             "casada",
				Profissao:               "engenheira",
				DocumentosIdentificacao: []string{"CPF 111.222.333-44"},
				DataAquisicao:           "2023-06-01",
			},
			Observacoes:    "Nenhuma restrição localizada.",
			SituacaoImovel: constants.SituacaoApto,
			ResultadoAnalise: llm.ResultadoAnalise{
				Veredito:    true,
				DataEmissao: "2024-01-01",
				VigenteAte:  "2024-06-29",
			},
		},
		Pages: 2,
		Stage: constants.StageDone,
	}
}

func newTestServer(t *testing.T, a Analyzer) (*Server, http.Handler) {
	t.Helper()
	srv := New(a, analise.NewCache(), export.NewService(nil), 25, nil)
	return srv, srv.Routes()
}

func uploadRequest(t *testing.T, field, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 conteúdo"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analises", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleAnalyze_HappyPath(t *testing.T) {
	fake := &fakeAnalyzer{res: sampleResult()}
	srv, h := newTestServer(t, fake)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "arquivo", "certidao.pdf"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, fake.gotPath)

	var got analise.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fake.res.ID, got.ID)
	assert.Equal(t, constants.SituacaoApto, got.Analise.SituacaoImovel)

	// the result is cached for later retrieval and export
	cached, ok := srv.cache.Get(fake.res.ID)
	require.True(t, ok)
	assert.Equal(t, fake.res, cached)
}

func TestHandleAnalyze_WrongField(t *testing.T) {
	_, h := newTestServer(t, &fakeAnalyzer{res: sampleResult()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "documento", "certidao.pdf"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_RejectsNonPDF(t *testing.T) {
	fake := &fakeAnalyzer{res: sampleResult()}
	_, h := newTestServer(t, fake)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "arquivo", "nota.txt"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.gotPath, "pipeline must not run for a rejected upload")
}

func TestHandleAnalyze_PipelineErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid pdf", common.NewStageError(constants.StageExtracting, common.WrapError(common.ErrInvalidPDF, "not a pdf")), http.StatusUnprocessableEntity},
		{"upstream down", common.NewStageError(constants.StageAwaitingCompletion, common.WrapError(common.ErrUpstreamUnavailable, "timeout")), http.StatusBadGateway},
		{"safety block", common.NewStageError(constants.StageAwaitingCompletion, common.WrapError(common.ErrUpstreamRejected, "blocked")), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, h := newTestServer(t, &fakeAnalyzer{err: tc.err})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, uploadRequest(t, "arquivo", "certidao.pdf"))

			assert.Equal(t, tc.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["hint"], "stage errors carry a reviewer hint")
		})
	}
}

func TestHandleGet(t *testing.T) {
	res := sampleResult()
	srv, h := newTestServer(t, &fakeAnalyzer{})
	srv.cache.Put(res)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analises/"+res.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got analise.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, res.ID, got.ID)
}

func TestHandleGet_UnknownID(t *testing.T) {
	_, h := newTestServer(t, &fakeAnalyzer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analises/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGet_MalformedID(t *testing.T) {
	_, h := newTestServer(t, &fakeAnalyzer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analises/nao-e-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExport(t *testing.T) {
	res := sampleResult()
	srv, h := newTestServer(t, &fakeAnalyzer{})
	srv.cache.Put(res)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analises/"+res.ID.String()+"/xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), res.ID.String())
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t, &fakeAnalyzer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
