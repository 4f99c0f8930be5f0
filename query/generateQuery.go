package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"datamilo/classifier"
	"datamilo/database"
	"datamilo/insights"
	"datamilo/logger"
	"datamilo/services"
	"datamilo/utils"
)

const maxBodyBytes = 1 << 20

type QueryRequest struct {
	Prompt string `json:"prompt" validate:"required,max=1000"`
}

type SectionResponse struct {
	Template      string                    `json:"template"`
	Category      string                    `json:"category"`
	SQL           string                    `json:"sql"`
	Columns       []string                  `json:"columns"`
	Data          []database.Row            `json:"data"`
	Insights      []insights.Insight        `json:"insights"`
	Chart         *utils.ChartConfiguration `json:"chart,omitempty"`
	ChartJSConfig map[string]interface{}    `json:"chartJSConfig,omitempty"`
	Options       map[string]interface{}    `json:"options,omitempty"`
}

type QueryResponse struct {
	RequestID      string `json:"request_id,omitempty"`
	Question       string `json:"question,omitempty"`
	Template       string `json:"template,omitempty"`
	Category       string `json:"category,omitempty"`
	Source         string `json:"source,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	*SectionResponse
	Sections []SectionResponse `json:"sections,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, question string) (*services.Answer, error)
}

type Handler struct {
	assistant Asker
	validate  *validator.Validate
	metrics   *Metrics
	log       logger.Logger
}

func NewHandler(assistant Asker, metrics *Metrics, log logger.Logger) *Handler {
	return &Handler{
		assistant: assistant,
		validate:  validator.New(),
		metrics:   metrics,
		log:       log,
	}
}

func (h *Handler) HandleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	requestID := RequestID(r.Context())
	log := h.log.With(map[string]interface{}{"request_id": requestID})

	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "max" {
			writeError(w, http.StatusBadRequest, "prompt is too long")
			return
		}
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.Prompt)
	if err != nil {
		h.metrics.ObserveError()
		log.WithError(err).Error("Query execution failed", map[string]interface{}{"prompt": req.Prompt})
		writeError(w, http.StatusInternalServerError, "error executing query")
		return
	}
	h.metrics.ObserveAnswer(answer.Template, answer.Source, answer.FallbackReason)

	resp := QueryResponse{
		RequestID:      requestID,
		Question:       answer.Question,
		Template:       answer.Template,
		Category:       answer.Category,
		Source:         answer.Source,
		FallbackReason: answer.FallbackReason,
	}
	if answer.Comprehensive() {
		for _, s := range answer.Sections {
			resp.Sections = append(resp.Sections, newSectionResponse(s))
		}
	} else {
		section := newSectionResponse(answer.Section)
		resp.SectionResponse = &section
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": classifier.Templates()})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newSectionResponse(s services.Section) SectionResponse {
	out := SectionResponse{
		Template: s.Template,
		Category: s.Category,
		SQL:      s.SQL,
		Insights: s.Insights,
		Chart:    s.Chart,
		Columns:  []string{},
		Data:     []database.Row{},
	}
	if s.Result != nil {
		out.Columns = s.Result.Columns
		out.Data = s.Result.Rows
	}
	if s.Chart != nil {
		out.ChartJSConfig, out.Options = utils.ParseChartConfigToChartJS(s.Chart)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, QueryResponse{Error: msg})
}
