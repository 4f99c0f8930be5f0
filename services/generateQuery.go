package services

import (
	"context"
	"errors"

	"datamilo/classifier"
	"datamilo/database"
	"datamilo/logger"
)

const (
	SourceTemplate = "template"
	SourceModel    = "model"
)

// Fallback reasons recorded when a generated statement is not used.
const (
	ReasonGenerationFailed   = "generation_failed"
	ReasonEmptyGeneration    = "empty_generation"
	ReasonValidationRejected = "validation_rejected"
	ReasonExecutionFailed    = "execution_failed"
)

// Route is the statement chosen for one question. Template is always the
// deterministic match, so callers can fall back to its SQL at any point.
type Route struct {
	Template       classifier.Template
	SQL            string
	Source         string
	FallbackReason string
}

// Router picks the statement that answers a question. Routing is total.
type Router interface {
	Route(ctx context.Context, question string) Route
}

// TemplateRouter answers every question from the template set.
type TemplateRouter struct {
	classifier *classifier.Classifier
}

func NewTemplateRouter(c *classifier.Classifier) *TemplateRouter {
	return &TemplateRouter{classifier: c}
}

func (t *TemplateRouter) Route(_ context.Context, question string) Route {
	tmpl := t.classifier.Classify(question)
	return Route{Template: tmpl, SQL: tmpl.SQL, Source: SourceTemplate}
}

// ModelRouter asks a text-generation model for the statement. Comprehensive
// requests never reach the model, and any unusable answer is replaced by
// the template for the question.
type ModelRouter struct {
	gen        Generator
	classifier *classifier.Classifier
	schema     []database.TableSchema
	opts       GenerationOptions
	log        logger.Logger
}

func NewModelRouter(gen Generator, c *classifier.Classifier, opts GenerationOptions, log logger.Logger) *ModelRouter {
	return &ModelRouter{
		gen:        gen,
		classifier: c,
		schema:     database.DatabaseSchema,
		opts:       opts,
		log:        log,
	}
}

func (m *ModelRouter) Route(ctx context.Context, question string) Route {
	tmpl := m.classifier.Classify(question)
	if tmpl.IsComprehensive() {
		return Route{Template: tmpl, Source: SourceTemplate}
	}

	text, err := m.gen.Generate(ctx, BuildSQLPrompt(question, m.schema), m.opts)
	if err != nil {
		return m.fallback(question, reasonFor(err), err)
	}

	sql, err := SanitizeGeneratedSQL(text)
	if err != nil {
		return m.fallback(question, ReasonValidationRejected, err)
	}

	m.log.Debug("Using generated statement", map[string]interface{}{"sql": sql})
	return Route{Template: tmpl, SQL: sql, Source: SourceModel}
}

func (m *ModelRouter) fallback(question, reason string, err error) Route {
	tmpl := m.classifier.Fallback(question)
	m.log.Warn("Generated statement unusable, using template", map[string]interface{}{
		"template": tmpl.Name,
		"reason":   reason,
		"error":    err.Error(),
	})
	return Route{Template: tmpl, SQL: tmpl.SQL, Source: SourceTemplate, FallbackReason: reason}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrEmptyGeneration):
		return ReasonEmptyGeneration
	case errors.Is(err, ErrValidationRejected):
		return ReasonValidationRejected
	default:
		return ReasonGenerationFailed
	}
}
