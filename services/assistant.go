package services

import (
	"context"
	"fmt"

	"datamilo/classifier"
	"datamilo/database"
	"datamilo/insights"
	"datamilo/logger"
	"datamilo/utils"
)

// Section is one executed template of an answer.
type Section struct {
	Template string                    `json:"template"`
	Category string                    `json:"category"`
	SQL      string                    `json:"sql"`
	Result   *database.QueryResult     `json:"result"`
	Insights []insights.Insight        `json:"insights"`
	Chart    *utils.ChartConfiguration `json:"chart"`
}

// Answer is the outcome of one question. A comprehensive analysis carries
// its sections in Sections and leaves the single-query fields empty.
type Answer struct {
	Question       string `json:"question"`
	Template       string `json:"template"`
	Category       string `json:"category"`
	Source         string `json:"source"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Section
	Sections []Section `json:"sections,omitempty"`
}

// Comprehensive reports whether the answer aggregates several sections.
func (a *Answer) Comprehensive() bool {
	return len(a.Sections) > 0
}

// Assistant runs the question pipeline: route, execute, derive insights
// and suggest a chart. Questions are handled one at a time per call; the
// Assistant keeps no state between calls.
type Assistant struct {
	router    Router
	executor  database.Executor
	insighter Insighter
	charter   Charter
	log       logger.Logger
}

func NewAssistant(router Router, executor database.Executor, insighter Insighter, charter Charter, log logger.Logger) *Assistant {
	return &Assistant{
		router:    router,
		executor:  executor,
		insighter: insighter,
		charter:   charter,
		log:       log,
	}
}

// Ask answers question. Only a failure of the deterministic statement is
// returned as an error; a failing generated statement is replaced by the
// template first.
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	route := a.router.Route(ctx, question)
	answer := &Answer{
		Question:       question,
		Template:       route.Template.Name,
		Category:       route.Template.Category,
		Source:         route.Source,
		FallbackReason: route.FallbackReason,
	}

	if route.Template.IsComprehensive() {
		sections, err := a.comprehensive(ctx, question)
		if err != nil {
			return nil, err
		}
		answer.Sections = sections
		return answer, nil
	}

	sql := route.SQL
	result, err := a.executor.Execute(ctx, sql)
	if err != nil && route.Source == SourceModel {
		a.log.Warn("Generated statement failed, using template", map[string]interface{}{
			"template": route.Template.Name,
			"error":    err.Error(),
		})
		answer.Source = SourceTemplate
		answer.FallbackReason = ReasonExecutionFailed
		sql = route.Template.SQL
		result, err = a.executor.Execute(ctx, sql)
	}
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", route.Template.Name, err)
	}

	answer.Section = a.section(ctx, route.Template, sql, result, question)
	a.log.Info("Answered question", map[string]interface{}{
		"template": answer.Template,
		"source":   answer.Source,
		"rows":     result.Len(),
	})
	return answer, nil
}

func (a *Assistant) comprehensive(ctx context.Context, question string) ([]Section, error) {
	sections := make([]Section, 0, len(classifier.ComprehensiveSet))
	for _, tmpl := range classifier.ComprehensiveSet {
		result, err := a.executor.Execute(ctx, tmpl.SQL)
		if err != nil {
			return nil, fmt.Errorf("comprehensive analysis, %s: %w", tmpl.Name, err)
		}
		sections = append(sections, a.section(ctx, tmpl, tmpl.SQL, result, question))
	}
	a.log.Info("Answered comprehensive analysis", map[string]interface{}{"sections": len(sections)})
	return sections, nil
}

func (a *Assistant) section(ctx context.Context, tmpl classifier.Template, sql string, result *database.QueryResult, question string) Section {
	return Section{
		Template: tmpl.Name,
		Category: tmpl.Category,
		SQL:      sql,
		Result:   result,
		Insights: a.insighter.Insights(ctx, result, question, sql),
		Chart:    a.charter.Chart(ctx, result, question),
	}
}
