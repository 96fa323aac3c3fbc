// Package ai turns dictated free text into record fields and summarises
// selected records. Everything is behind FieldExtractor/Analyzer so the
// editor stays fully testable offline.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"rollgrid/internal/model"
)

// FieldExtractor maps free text onto a subset of candidate columns.
// A failed or empty extraction yields an empty patch, never a fatal error
// for the editor.
type FieldExtractor interface {
	Extract(ctx context.Context, freeText string, candidates []string) (map[string]string, error)
}

// Analyzer produces a markdown summary of selected records.
type Analyzer interface {
	Analyze(ctx context.Context, cols model.Columns, records []model.Record) (string, error)
}

// Client wraps the OpenAI chat API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

// Extract asks the model for a strict-JSON mapping of column name to
// value for the fields mentioned in freeText. The serial column is never
// a candidate. Empty input short-circuits to an empty patch.
func (c *Client) Extract(ctx context.Context, freeText string, candidates []string) (map[string]string, error) {
	if c == nil || c.apiKey == "" {
		return nil, errors.New("openai disabled")
	}
	fields := CandidateColumns(candidates)
	if strings.TrimSpace(freeText) == "" || len(fields) == 0 {
		return map[string]string{}, nil
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.call(ctx2, extractPrompt(freeText, fields),
		"You extract form fields from dictated text and return ONLY strict JSON mapping field names to string values. No prose, no code fences.")
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(resp), &raw); err != nil {
		return nil, fmt.Errorf("malformed extraction response: %w", err)
	}
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if !allowed[k] || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			out[k] = t
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, nil
}

// Analyze summarises the given records: demographics, data quality
// issues, notable patterns.
func (c *Client) Analyze(ctx context.Context, cols model.Columns, records []model.Record) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", errors.New("openai disabled")
	}
	if len(records) == 0 {
		return "", errors.New("no records selected")
	}
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.call(ctx2, analyzePrompt(cols, records),
		"You are a helpful data analyst. Respond in concise markdown.")
}

func (c *Client) call(ctx context.Context, prompt, system string) (string, error) {
	cfg := openai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := openai.NewClientWithConfig(cfg)
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	}
	if strings.Contains(system, "JSON") {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	resp, err := cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CandidateColumns filters out system-managed columns from extraction
// candidates.
func CandidateColumns(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c), "serial no") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func extractPrompt(freeText string, fields []string) string {
	var b strings.Builder
	b.WriteString("The user is filling out a voter form with these fields: ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(".\nReturn ONLY a strict JSON object whose keys are a subset of those field names and whose values are strings. ")
	b.WriteString("Handle natural language like \"set the name to...\" or \"the age is...\". Only include fields mentioned in the text.\n")
	b.WriteString("Text: ")
	b.WriteString(freeText)
	return b.String()
}

const maxAnalyzeRecords = 100

func analyzePrompt(cols model.Columns, records []model.Record) string {
	if len(records) > maxAnalyzeRecords {
		records = records[:maxAnalyzeRecords]
	}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		row := make(map[string]string, len(cols))
		for _, c := range cols {
			row[c] = r.Get(c).Text()
		}
		rows = append(rows, row)
	}
	data, _ := json.MarshalIndent(rows, "", "  ")

	var b strings.Builder
	b.WriteString("Analyze the following JSON list of voter records. Provide a concise summary of the key insights:\n")
	b.WriteString("1. Demographic summary (age and gender distribution where available).\n")
	b.WriteString("2. Potential data quality issues such as missing values or inconsistencies.\n")
	b.WriteString("3. Interesting patterns or groupings.\n")
	b.WriteString("Do not repeat the data; provide actionable insights in markdown.\n\nData:\n")
	b.Write(data)
	return b.String()
}
