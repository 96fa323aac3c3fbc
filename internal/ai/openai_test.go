package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rollgrid/internal/model"
)

func TestCandidateColumnsExcludesSerials(t *testing.T) {
	got := CandidateColumns([]string{model.SerialColumn, "NAME", "SERIAL NO (SIR 2005)", "AGE"})
	if len(got) != 2 || got[0] != "NAME" || got[1] != "AGE" {
		t.Fatalf("candidates = %v", got)
	}
}

func TestExtractPromptNamesFields(t *testing.T) {
	p := extractPrompt("the age is 40", []string{"NAME", "AGE"})
	if !strings.Contains(p, "NAME, AGE") || !strings.Contains(p, "the age is 40") {
		t.Fatalf("prompt missing fields or text: %s", p)
	}
}

func TestClientDisabledWithoutKey(t *testing.T) {
	var c *Client
	if _, err := c.Extract(context.Background(), "x", []string{"NAME"}); err == nil {
		t.Fatal("nil client should report disabled")
	}
	c = NewClient("", "", "gpt-4o-mini", 0)
	if _, err := c.Analyze(context.Background(), nil, []model.Record{{}}); err == nil {
		t.Fatal("keyless client should report disabled")
	}
}

func TestStubExtractRespectsCandidates(t *testing.T) {
	s := &Stub{Fields: map[string]string{"NAME": "Amy", model.SerialColumn: "9", "AGE": "34"}}
	got, err := s.Extract(context.Background(), "name is amy, age 34", []string{model.SerialColumn, "NAME", "AGE"})
	if err != nil {
		t.Fatal(err)
	}
	if got["NAME"] != "Amy" || got["AGE"] != "34" {
		t.Fatalf("patch = %v", got)
	}
	if _, ok := got[model.SerialColumn]; ok {
		t.Fatal("serial column must never be extracted")
	}

	empty, err := s.Extract(context.Background(), "", []string{"NAME"})
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty transcript should yield empty patch, got %v, %v", empty, err)
	}
}

func TestStubErrorPropagates(t *testing.T) {
	s := &Stub{Err: errors.New("boom")}
	if _, err := s.Extract(context.Background(), "x", []string{"NAME"}); err == nil {
		t.Fatal("expected error")
	}
}
