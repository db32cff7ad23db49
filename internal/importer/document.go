package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Result is an imported document plus the problems found in it.
type Result struct {
	Document *model.Document
	Problems []model.Problem
}

// ParseDocument reads a panel configuration as JSON or YAML. The format is
// detected from the first non-space byte: '{' means JSON.
func ParseDocument(r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return model.EmptyDocument(), nil
	}

	var doc model.Document
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return &doc, nil
	}

	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Import parses a document and checks it against the registry.
func Import(r io.Reader, reg *model.Registry) (*Result, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return &Result{Document: doc, Problems: Validate(doc, reg)}, nil
}

// Validate reports layout problems plus placements and visibility overrides
// naming panels the registry does not declare.
func Validate(doc *model.Document, reg *model.Registry) []model.Problem {
	problems := doc.Layout.UnknownPanels(reg)
	problems = append(problems, doc.Layout.Problems()...)
	for _, v := range doc.ActivePanels {
		if !reg.Known(v.ID) {
			problems = append(problems, model.Problem{Kind: model.ProblemUnknown, ID: v.ID})
		}
	}
	return problems
}
