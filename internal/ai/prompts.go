// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// systemPrompt frames every call. Each task prompt names its own JSON shape.
const systemPrompt = `You are a patent research expert helping inventors find patents similar to their inventions. You produce conservative, structured outputs and never invent patents, numbers, or facts. Return strict JSON only, with no commentary outside the JSON object.`

var conceptPromptTmpl = template.Must(template.New("concepts").Parse(`Analyze the invention description below and extract its key technical concepts, keywords, and terminology.

Return a JSON object of the form:
{"concepts": ["concept one", "concept two"]}

Rules:
- between 3 and 12 concepts
- each concept is a short noun phrase (1 to 5 words) a patent examiner would search for
- cover the core mechanism, the components, and the application domain

Invention description:
{{.Description}}
`))

var strategyPromptTmpl = template.Must(template.New("strategies").Parse(`Using the technical concepts below, write three patent search strategies for Google Patents style full-text search:
- one "broad" conceptual search
- one "specific" search built from precise technical terms
- one "alternative" search that describes the same invention with different vocabulary or a different approach

For each strategy explain which aspect of the invention it targets and why you chose those terms.

Return a JSON object of the form:
{"strategies": [{"label": "broad", "query": "...", "rationale": "..."}]}

Rules:
- label is exactly one of "broad", "specific", "alternative"
- list the strategies in the order they should be searched, broadest first
- each query is plain keywords, at most 12 words, with no boolean operators or field codes

Concepts:
{{range .Concepts}}- {{.}}
{{end}}`))

var analysisPromptTmpl = template.Must(template.New("analysis").Funcs(promptFuncs).Parse(`Compare the invention below against the candidate patents found by the search, which are listed in ranked order. Assess each candidate and the overall novelty of the invention.

Return a JSON object of the form:
{
  "summary": "summary of the most relevant patents found",
  "assessments": [{"canonical_id": "US123456", "verdict": "high_overlap", "overlap": "...", "differences": "..."}],
  "novelty_gaps": ["aspect of the invention not covered by any candidate"],
  "recommendation": "overall recommendation",
  "further_research": ["suggested follow-up search or reading"],
  "application_strategy": "suggestions for a patent application strategy"
}

Rules:
- one assessment per candidate, using the candidate's canonical_id exactly as given
- verdict is exactly one of "high_overlap", "partial_overlap", "low_overlap"
- only discuss the candidates listed; do not cite other patents

Invention description:
{{.Description}}

Candidate patents:
{{range $i, $c := .Candidates}}{{inc $i}}. {{$c.CanonicalID}}: {{$c.Title}}
   Assignee: {{or $c.Assignee "unknown"}} | Published: {{date $c.PublicationDate}} | Found by {{len $c.SourceStrategies}} strateg{{if eq (len $c.SourceStrategies) 1}}y{{else}}ies{{end}}
   {{$c.Snippet}}
{{end}}`))

var promptFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"date": func(t *time.Time) string {
		if t == nil {
			return "unknown"
		}
		return t.Format("2006-01-02")
	},
}

func renderConceptPrompt(description string) (string, error) {
	return render(conceptPromptTmpl, struct{ Description string }{description})
}

func renderStrategyPrompt(concepts []types.Concept) (string, error) {
	return render(strategyPromptTmpl, struct{ Concepts []types.Concept }{concepts})
}

func renderAnalysisPrompt(description string, candidates types.RankedCandidateSet) (string, error) {
	return render(analysisPromptTmpl, struct {
		Description string
		Candidates  types.RankedCandidateSet
	}{description, candidates})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
