/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// evaluationPrefix and evaluationSuffix frame the model name in a
// grading-stage output filename, e.g. evaluation_results_gpt-4o.json.
const (
	evaluationPrefix = "evaluation_results_"
	evaluationSuffix = ".json"
)

// EvaluationFile pairs a model name with its grading-stage output path.
type EvaluationFile struct {
	Model string
	Path  string
}

// EvaluationFileName builds the grading output filename for a model.
func EvaluationFileName(model string) string {
	return evaluationPrefix + model + evaluationSuffix
}

// DiscoverEvaluations finds every grading output file in dir and extracts
// the model name from each filename. Results are sorted by model name.
func DiscoverEvaluations(dir string) ([]EvaluationFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, evaluationPrefix+"*"+evaluationSuffix))
	if err != nil {
		return nil, fmt.Errorf("scan evaluation dir %s: %w", dir, err)
	}

	files := make([]EvaluationFile, 0, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		model := strings.TrimSuffix(strings.TrimPrefix(name, evaluationPrefix), evaluationSuffix)
		if model == "" {
			continue
		}
		files = append(files, EvaluationFile{Model: model, Path: path})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Model < files[j].Model })
	return files, nil
}
