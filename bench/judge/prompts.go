/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "github.com/ZhilingYan/LiveMedBench/bench/promptbuilder"

// gradingPrompt asks for a binary verdict on exactly one criterion. Criteria
// are never batched: one judgment's failure must not take others with it,
// and small prompts keep the verdict focused.
var gradingPrompt = promptbuilder.MustNewPrompt(`Role: You are an Objective Grader.
Task: Evaluate the Model Response (M_out) against the provided Rubric (R).

Instructions:
- Objective Verification: For each criterion in the Rubric, determine if the Model Response satisfies it.
- Binary Judgment: Return true (Met) or false (Not Met).
- Positive Criteria Logic: true if the model includes the required information.
- Negative Criteria Logic: true if the model commits the error (e.g., if the rubric asks "Does model suggest antibiotics?" and the model suggests them, return true). Note: The scoring formula handles the negative sign; you simply detect presence.
- Evidence: Quote the specific sentence from the model output that supports your decision.

Input:
- User Query (Q): This is the original question from the patient, built as:
    Q = """{{user_query}}"""
- Model Response (M_out):
{{model_response}}

- Rubric (R): JSON list of criteria. In this call you will receive exactly one criterion:
[
  {"question": "{{criterion}}"}
]

Output Format (JSON):
[
  {
    "question": "Does the model identify the likely cause as Norovirus?",
    "met": true,
    "reasoning": "Model explicitly states 'symptoms suggest Norovirus'."
  },
  {
    "question": "Does the model recommend antibiotics?",
    "met": false,
    "reasoning": "Model correctly states 'antibiotics are not effective'."
  }
]

Now, given the User Query (Q), the Model Response (M_out) and the Rubric (R) with one criterion, output a JSON list with a single object in the exact format above, where:
- "question" is the criterion string you evaluated,
- "met" is true or false,
- "reasoning" briefly quotes or summarizes the evidence from the model response (and, if relevant, the user query) that supports your decision.`)

// BuildGradingPrompt fills the grading template for one criterion.
func BuildGradingPrompt(criterion, modelResponse, userQuery string) (string, error) {
	p, err := gradingPrompt.Bind("user_query", trimmed(userQuery))
	if err != nil {
		return "", err
	}
	if p, err = p.Bind("model_response", trimmed(modelResponse)); err != nil {
		return "", err
	}
	if p, err = p.Bind("criterion", trimmed(criterion)); err != nil {
		return "", err
	}
	return p.Build()
}
