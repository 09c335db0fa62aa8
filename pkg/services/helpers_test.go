package services

import (
	"context"
	"sync"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

// stubGenerator returns a fixed completion and counts calls.
type stubGenerator struct {
	mu        sync.Mutex
	content   string
	err       error
	calls     int
	lastInput string
}

func (g *stubGenerator) Generate(_ context.Context, utterance string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastInput = utterance
	return g.content, g.err
}

func (g *stubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// stubRunner returns a fixed result set and records statements.
type stubRunner struct {
	mu      sync.Mutex
	result  *models.ResultSet
	err     error
	queries []string
}

func (r *stubRunner) Run(_ context.Context, sqlQuery string) (*models.ResultSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, sqlQuery)
	return r.result, r.err
}

func (r *stubRunner) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// stubFormatter echoes a fixed text and counts calls.
type stubFormatter struct {
	mu    sync.Mutex
	text  string
	calls int
	panic bool
}

func (f *stubFormatter) Format(_ context.Context, _ *models.ResultSet) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panic {
		panic("formatter exploded")
	}
	return f.text
}

func (f *stubFormatter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func eventRows() *models.ResultSet {
	return &models.ResultSet{
		Columns: []string{"title", "date_time", "address"},
		Rows: []map[string]any{
			{"title": "Jazz Night", "date_time": "20/06/2025,20 : 30", "address": "Valletta"},
		},
	}
}
