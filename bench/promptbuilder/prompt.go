/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder provides {{token}} prompt templates. Binding is
// immutable: Bind returns a new Prompt, and Build fails if any token is
// still unbound, so a prompt can never reach a model half-filled.
package promptbuilder

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// Prompt is a template with bindable placeholders.
type Prompt struct {
	template string
	bindings map[string]*string
}

// NewPrompt parses a template and collects its placeholders.
func NewPrompt(template string) (*Prompt, error) {
	bindings := make(map[string]*string)
	if _, err := walkTemplate(template, func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = nil
		}
		return fmt.Sprintf("{{%s}}", name), nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: template, bindings: bindings}, nil
}

// MustNewPrompt is NewPrompt for package-level template constants.
func MustNewPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Bind binds a string value to a placeholder, returning a new Prompt.
func (p *Prompt) Bind(name, value string) (*Prompt, error) {
	existing, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("binding %q does not exist in template", name)
	}
	if existing != nil {
		return nil, fmt.Errorf("binding %q is already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = &value
	return next, nil
}

// Build constructs the final prompt, erroring on unbound placeholders.
func (p *Prompt) Build() (string, error) {
	return walkTemplate(p.template, func(name string) (string, error) {
		val := p.bindings[name]
		if val == nil {
			return "", fmt.Errorf("binding %q is unbound", name)
		}
		return *val, nil
	})
}

type resolveFunc func(name string) (string, error)

// walkTemplate tokenizes the template and calls resolve for each binding.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var result strings.Builder

	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)

		template = template[end:]
	}

	return result.String(), nil
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
