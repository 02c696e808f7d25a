package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maltedev/seminovas-importer/internal/database"
	"github.com/maltedev/seminovas-importer/internal/models"
)

const (
	msgCorpoInvalido   = "Corpo da requisição inválido."
	msgURLInvalida     = "Informe uma URL válida de seminovo."
	msgURLNaoSeminovo  = "A URL deve ser de uma página de seminovo da ByMoto."
	msgCriada          = "Moto seminova criada com sucesso."
	msgAtualizada      = "Moto seminova atualizada com sucesso."
	msgFalhaBusca      = "Não foi possível acessar a página do seminovo na ByMoto (falha ao buscar a URL). Verifique a URL ou tente novamente mais tarde."
	msgSemPrecoOuAno   = "A moto não pôde ser importada porque preço ou anos (fabricação/modelo) não foram encontrados na página."
	msgMotivoDesconhec = "A moto não pôde ser importada por um motivo desconhecido."
	msgErroInterno     = "Erro interno ao importar a moto seminova. Consulte os logs do servidor."
)

// SeminovaImporter is satisfied by *catalog.Importer.
type SeminovaImporter interface {
	ImportFromURL(ctx context.Context, detailURL string) (models.ImportResult, error)
}

// OutboxStats is satisfied by *database.OutboxRepository.
type OutboxStats interface {
	Counts(ctx context.Context) (database.OutboxCounts, error)
}

type Handlers struct {
	importer SeminovaImporter
	outbox   OutboxStats
	logger   *slog.Logger
}

func NewHandlers(importer SeminovaImporter, outbox OutboxStats, logger *slog.Logger) *Handlers {
	return &Handlers{
		importer: importer,
		outbox:   outbox,
		logger:   logger.With("component", "api"),
	}
}

type ImportSeminovaRequest struct {
	DetailURL string `json:"detailUrl"`
}

type ImportSeminovaResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportSeminova imports a single detail page. Callers only ever see a short
// message; the underlying error is logged.
func (h *Handlers) ImportSeminova(w http.ResponseWriter, r *http.Request) {
	var req ImportSeminovaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgCorpoInvalido)
		return
	}

	detailURL := strings.TrimSpace(req.DetailURL)
	if detailURL == "" || !strings.HasPrefix(detailURL, "http") {
		h.respondError(w, http.StatusBadRequest, msgURLInvalida)
		return
	}
	if !strings.Contains(detailURL, "/seminovo/") {
		h.respondError(w, http.StatusBadRequest, msgURLNaoSeminovo)
		return
	}

	result, err := h.importer.ImportFromURL(r.Context(), detailURL)
	if err != nil {
		h.logger.Error("failed to import seminova", "url", detailURL, "error", err)
		h.respondError(w, http.StatusInternalServerError, msgErroInterno)
		return
	}

	switch result {
	case models.ResultCreated:
		h.respondJSON(w, http.StatusOK, ImportSeminovaResponse{Message: msgCriada})
	case models.ResultUpdated:
		h.respondJSON(w, http.StatusOK, ImportSeminovaResponse{Message: msgAtualizada})
	case models.ResultSkippedFetch:
		h.respondError(w, http.StatusUnprocessableEntity, msgFalhaBusca)
	case models.ResultSkippedPrecoOuAno:
		h.respondError(w, http.StatusUnprocessableEntity, msgSemPrecoOuAno)
	default:
		h.respondError(w, http.StatusUnprocessableEntity, msgMotivoDesconhec)
	}
}

// Health reports outbox backlog. A large dead letter queue makes the service unhealthy.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	counts, err := h.outbox.Counts(r.Context())
	if err != nil {
		h.logger.Error("failed to read outbox counts", "error", err)
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"message": "database unavailable",
		})
		return
	}

	health := map[string]any{
		"status": "ok",
		"outbox": counts,
	}

	status := http.StatusOK
	if counts.Pending > 1000 {
		health["status"] = "warning"
		health["message"] = "High number of pending outbox events"
	}
	if counts.DeadLetter > 100 {
		health["status"] = "error"
		health["message"] = "High number of dead letter events"
		status = http.StatusServiceUnavailable
	}

	h.respondJSON(w, status, health)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ImportSeminovaResponse{Error: message})
}
