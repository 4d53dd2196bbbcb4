/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ParseVerdict turns raw judge output into a binary score. The judge is
// itself a language model, so the requested format is a request, not a
// guarantee; parsing is layered and never fails:
//
//  1. JSON list of one object with a "met" field (bool, or "true"/"false").
//  2. Lexical scan for "met" near true/false in non-JSON text.
//  3. Generic affirmative/negative keywords.
//  4. Default 0 with ok=false so the caller can warn.
func ParseVerdict(raw string) (score int, ok bool) {
	text := strings.TrimSpace(raw)

	if score, ok := parseVerdictJSON(extractJSON(text)); ok {
		return score, true
	}

	lowered := strings.ToLower(text)
	if strings.Contains(lowered, `"met"`) || strings.Contains(lowered, "met:") {
		if strings.Contains(lowered, "true") {
			return 1, true
		}
		if strings.Contains(lowered, "false") {
			return 0, true
		}
	}

	if strings.Contains(lowered, "yes") || strings.Contains(lowered, "satisf") {
		return 1, true
	}
	if strings.Contains(lowered, "no") || strings.Contains(lowered, "not satisf") {
		return 0, true
	}

	return 0, false
}

// parseVerdictJSON handles the requested output shape: a list whose first
// object carries "met". A bare object is tolerated too.
func parseVerdictJSON(text string) (int, bool) {
	if text == "" {
		return 0, false
	}

	type verdict struct {
		Met json.RawMessage `json:"met"`
	}

	var first verdict
	var list []verdict
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		if len(list) == 0 {
			return 0, false
		}
		first = list[0]
	} else if err := json.Unmarshal([]byte(text), &first); err != nil {
		return 0, false
	}

	var met bool
	if err := json.Unmarshal(first.Met, &met); err == nil {
		return boolScore(met), true
	}
	var metStr string
	if err := json.Unmarshal(first.Met, &metStr); err == nil {
		switch strings.ToLower(strings.TrimSpace(metStr)) {
		case "true":
			return 1, true
		case "false":
			return 0, true
		}
	}
	return 0, false
}

func boolScore(met bool) int {
	if met {
		return 1
	}
	return 0
}

// extractJSON extracts JSON content from a response that may wrap it in
// markdown code fences, or returns the input trimmed if no fences are found.
func extractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var jsonBuffer bytes.Buffer
	inJSONBlock := false
	foundJSON := false

	for _, line := range lines {
		if !inJSONBlock && strings.TrimSpace(line) == "```json" {
			inJSONBlock = true
			foundJSON = true
			continue
		}
		if inJSONBlock && strings.TrimSpace(line) == "```" {
			break
		}
		if inJSONBlock {
			if jsonBuffer.Len() > 0 {
				jsonBuffer.WriteString("\n")
			}
			jsonBuffer.WriteString(line)
		}
	}

	if foundJSON {
		return strings.TrimSpace(jsonBuffer.String())
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}
