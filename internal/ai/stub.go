package ai

import (
	"context"

	"rollgrid/internal/model"
)

// Stub is a canned FieldExtractor/Analyzer for tests and offline mode.
type Stub struct {
	Fields  map[string]string
	Summary string
	Err     error
}

func (s *Stub) Extract(_ context.Context, freeText string, candidates []string) (map[string]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	allowed := make(map[string]bool, len(candidates))
	for _, c := range CandidateColumns(candidates) {
		allowed[c] = true
	}
	out := make(map[string]string, len(s.Fields))
	if freeText == "" {
		return out, nil
	}
	for k, v := range s.Fields {
		if allowed[k] {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Stub) Analyze(context.Context, model.Columns, []model.Record) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Summary, nil
}
