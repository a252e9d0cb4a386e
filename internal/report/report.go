// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders run results for the terminal and for export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// Format names an output rendering.
type Format string

const (
	FormatNameTable    Format = "table"
	FormatNameJSON     Format = "json"
	FormatNameYAML     Format = "yaml"
	FormatNameMarkdown Format = "markdown"
	FormatNameHTML     Format = "html"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatNameTable, FormatNameJSON, FormatNameYAML, FormatNameMarkdown, FormatNameHTML:
		return f, nil
	case "md":
		return FormatNameMarkdown, nil
	case "yml":
		return FormatNameYAML, nil
	case "":
		return FormatNameTable, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, yaml, markdown, or html)", s)
}

// Write renders result to w in format f.
func Write(w io.Writer, f Format, result types.RunResult) error {
	switch f {
	case FormatNameJSON:
		return FormatJSON(result, w)
	case FormatNameYAML:
		return FormatYAML(result, w)
	case FormatNameMarkdown:
		_, err := io.WriteString(w, Markdown(result))
		return err
	case FormatNameHTML:
		html, err := HTML(result)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	}
	FormatTable(result, w)
	return nil
}

// FormatJSON writes result as indented JSON.
func FormatJSON(result types.RunResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// FormatYAML writes result as YAML.
func FormatYAML(result types.RunResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func formatDate(r types.PatentRecord) string {
	if r.PublicationDate == nil {
		return ""
	}
	return r.PublicationDate.Format("2006-01-02")
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
