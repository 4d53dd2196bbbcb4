/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package bench defines the LiveMedBench data model and the JSON interchange
// files shared by the generation, grading, and aggregation stages.
package bench

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Case is one patient question: the unit of generation and grading.
// Upstream data files use both string and numeric case ids, so the id is
// preserved verbatim and compared through CaseKey.
type Case struct {
	CaseID       json.RawMessage `json:"case_id,omitempty"`
	PostTime     string          `json:"post_time,omitempty"`
	Narrative    string          `json:"narrative"`
	CoreRequest  string          `json:"core_request"`
	DoctorAdvice string          `json:"doctor_advice,omitempty"`
}

// RubricItem is one yes/no checkable statement about a response. Points are
// signed: positive items reward compliance, negative items penalize an error
// condition the judge detects.
type RubricItem struct {
	Criterion string  `json:"criterion"`
	Points    float64 `json:"points"`
	Axe       string  `json:"axe"`
}

// RubricCase pairs a case with its ordered rubric. The rubric file carries
// the case narrative alongside the items so the grader can reconstruct the
// original user query.
type RubricCase struct {
	CaseID      json.RawMessage `json:"case_id"`
	PostTime    string          `json:"post_time,omitempty"`
	Narrative   string          `json:"narrative,omitempty"`
	CoreRequest string          `json:"core_request,omitempty"`
	RubricItems []RubricItem    `json:"rubric_items"`
}

// UserQuery reconstructs the question shown to the graded model: narrative
// followed by the explicit request.
func (rc RubricCase) UserQuery() string {
	return strings.TrimSpace(rc.Narrative + "\n\n" + rc.CoreRequest)
}

// ModelResponse is one generated answer, keyed by case id. Input fields are
// copied through for downstream convenience; regeneration overwrites the
// record wholesale.
type ModelResponse struct {
	CaseID        json.RawMessage `json:"case_id"`
	PostTime      string          `json:"post_time"`
	Narrative     string          `json:"narrative"`
	CoreRequest   string          `json:"core_request"`
	ModelResponse string          `json:"model_response"`
	FinishReason  string          `json:"finish_reason"`
	DoctorAdvice  string          `json:"doctor_advice"`
}

// CriterionJudgment is the judge's verdict on one rubric item. Score is 0 or
// 1; WeightedScore is points multiplied by score.
type CriterionJudgment struct {
	Criterion     string  `json:"criterion"`
	Points        float64 `json:"points"`
	Axe           string  `json:"axe"`
	Score         int     `json:"score"`
	WeightedScore float64 `json:"weighted_score"`
}

// EvaluationRecord holds all criterion judgments for one case, keyed
// rubric_<1-based-position>. An empty Evaluations map means the case was
// skipped (no rubric, no model output, or empty response); aggregation
// scores such cases as 0.
type EvaluationRecord struct {
	CaseID      json.RawMessage              `json:"case_id"`
	Evaluations map[string]CriterionJudgment `json:"evaluations"`
}

// CaseKey normalizes a raw case id for comparison: string ids lose their
// quotes, numeric ids keep their literal form, and a missing id becomes "".
func CaseKey(id json.RawMessage) string {
	s := strings.TrimSpace(string(id))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

// StringID wraps a plain string as a raw case id, for records whose source
// data had no id of its own.
func StringID(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return json.RawMessage(b)
}
