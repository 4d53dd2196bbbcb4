/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package llm

import "strings"

// IsTransient reports whether an error looks like a rate limit, quota, or
// transient server failure. The call sites retry on any error regardless;
// this classification only labels the log line when a call is finally given
// up on, so persistent quota exhaustion can be told apart from bad requests.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "rate_limit_error") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "overloaded_error") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "server error") ||
		strings.Contains(errStr, "Internal error")
}
