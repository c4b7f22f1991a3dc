package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fabriciorodias/matriculas-analyzer/constants"
	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
)

// handleAnalyze accepts a multipart PDF upload under the "arquivo" field,
// runs the pipeline synchronously, caches the result for the session, and
// returns it as JSON.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "arquivo ausente ou acima do limite de upload")
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "campo 'arquivo' é obrigatório")
		return
	}
	defer func() { _ = file.Close() }()

	if !constants.IsAllowedExt(filepath.Ext(header.Filename)) {
		writeError(w, http.StatusBadRequest, "apenas arquivos PDF são aceitos")
		return
	}

	tmp, err := os.CreateTemp("", "ma-upload-*.pdf")
	if err != nil {
		s.logger.Error("server.upload.tmpfile_error", "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao receber o arquivo")
		return
	}
	defer func() {
		_ = tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			s.logger.Warn("server.upload.cleanup_failed", "path", tmp.Name(), "error", rmErr)
		}
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		s.logger.Error("server.upload.copy_error", "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao receber o arquivo")
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), tmp.Name(), nil)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}

	s.cache.Put(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	b, err := s.exporter.ExportAnaliseXLSX(res)
	if err != nil {
		s.logger.Error("server.export.failed", "analysis_id", res.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao gerar a planilha")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analise-%s.xlsx"`, res.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*analise.Result, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return nil, false
	}
	cached, found := s.cache.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "análise não encontrada nesta sessão")
		return nil, false
	}
	return cached, true
}

// writeAnalyzeError maps pipeline failures onto HTTP statuses with a
// reviewer-actionable message.
func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	var stageErr *common.StageError
	hint := ""
	if errors.As(err, &stageErr) {
		hint = stageErr.UserMessage()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidPDF):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrUpstreamUnavailable), errors.Is(err, common.ErrUpstreamRejected):
		status = http.StatusBadGateway
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	s.logger.Error("server.analyze.failed", "status", status, "error", err)

	body := map[string]any{"error": err.Error()}
	if stageErr != nil {
		body["stage"] = stageErr.Stage
	}
	if hint != "" {
		body["hint"] = hint
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
