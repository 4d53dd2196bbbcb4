/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package runner

const (
	englishInstruction = "IMPORTANT: Provide ONLY the final answer to the following question, without any explanation or reasoning steps."
	chineseInstruction = "请直接用中文回答下面的问题，不要给出推理过程或中间步骤。"
)

// BuildPrompt assembles the generation prompt for one case: a direct-answer
// instruction, the patient narrative, then the explicit request. Cases with
// any CJK text get the Chinese instruction so the model answers in the
// patient's language.
func BuildPrompt(narrative, coreRequest string) string {
	instruction := englishInstruction
	if containsCJK(narrative + coreRequest) {
		instruction = chineseInstruction
	}
	return instruction + "\n\n" + narrative + "\n\n" + coreRequest
}

// containsCJK reports whether s contains a character in the CJK Unified
// Ideographs block.
func containsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
