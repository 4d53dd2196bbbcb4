/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadCases reads the generation-stage input file: a JSON list of cases.
// Any other root type is a configuration error.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	var cases []Case
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("data file %s must be a JSON list of cases: %w", path, err)
	}
	return cases, nil
}

// LoadRubric reads the rubric file: a JSON list of cases with rubric_items.
func LoadRubric(path string) ([]RubricCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric file %s: %w", path, err)
	}
	var cases []RubricCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("rubric file %s must be a JSON list of cases: %w", path, err)
	}
	return cases, nil
}

// RubricIndex maps a rubric list by normalized case id.
func RubricIndex(cases []RubricCase) map[string]RubricCase {
	index := make(map[string]RubricCase, len(cases))
	for _, rc := range cases {
		if key := CaseKey(rc.CaseID); key != "" {
			index[key] = rc
		}
	}
	return index
}

// LoadResponses reads a model-result file and indexes its records by case id.
// Both list and map roots are accepted: list entries must carry their own
// case_id, map entries may, with the map key as fallback.
func LoadResponses(path string) (map[string]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model result file %s: %w", path, err)
	}

	index := make(map[string]map[string]any)

	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if key := anyCaseKey(item["case_id"]); key != "" {
				index[key] = item
			}
		}
		return index, nil
	}

	var byKey map[string]map[string]any
	if err := json.Unmarshal(raw, &byKey); err == nil {
		for k, item := range byKey {
			key := anyCaseKey(item["case_id"])
			if key == "" {
				key = k
			}
			index[key] = item
		}
		return index, nil
	}

	return nil, fmt.Errorf("model result file %s has an unsupported JSON root type", path)
}

// ResponseText performs the ordered field lookup on one model-result record:
// the first field with non-empty text wins.
func ResponseText(item map[string]any, fields []string) string {
	for _, field := range fields {
		if text, ok := item[field].(string); ok && text != "" {
			return text
		}
	}
	return ""
}

// ResponseFields builds the lookup order for a configured response field,
// appending the default field as fallback when they differ.
func ResponseFields(configured string) []string {
	const fallback = "response"
	if configured == "" {
		return []string{fallback}
	}
	if configured == fallback {
		return []string{configured}
	}
	return []string{configured, fallback}
}

// LoadExisting reads a prior output file for resume. Records come back as
// raw JSON so resumed entries are reused verbatim, never re-encoded from a
// lossy intermediate; the index maps normalized case ids to positions in the
// returned slice.
func LoadExisting(path string) ([]json.RawMessage, map[string]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read existing output %s: %w", path, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, nil, fmt.Errorf("existing output %s must be a JSON list: %w", path, err)
	}

	index := make(map[string]int, len(records))
	for i, rec := range records {
		var peek struct {
			CaseID json.RawMessage `json:"case_id"`
		}
		if err := json.Unmarshal(rec, &peek); err != nil {
			continue
		}
		if key := CaseKey(peek.CaseID); key != "" {
			index[key] = i
		}
	}
	return records, index, nil
}

// LoadEvaluations reads a grading-stage output file for aggregation.
func LoadEvaluations(path string) ([]EvaluationRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evaluation file %s: %w", path, err)
	}
	var records []EvaluationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("evaluation file %s must be a JSON list: %w", path, err)
	}
	return records, nil
}

// SaveJSON rewrites path wholesale with the indented JSON encoding of v,
// creating parent directories as needed.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Marshal encodes one record the same way SaveJSON will, so freshly produced
// records and resumed raw records can share an output slice.
func Marshal(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func anyCaseKey(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		// encoding/json decodes untyped numbers as float64; integral ids
		// round-trip without a fractional part.
		return strings.TrimSuffix(fmt.Sprintf("%v", id), ".0")
	default:
		return fmt.Sprintf("%v", id)
	}
}
