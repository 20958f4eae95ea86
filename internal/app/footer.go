package app

import (
	"strings"
)

// appendReproFooter appends a minimal, deterministic footer that records
// configuration useful for reproducibility and auditing: model name, LLM base
// URL, the grounding tool and whether local search grounding was enabled.
func appendReproFooter(markdown string, model string, baseURL string, grounding string, localSearch bool) string {
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n\n---\n")
	b.WriteString("Reproducibility: ")
	b.WriteString("model=")
	b.WriteString(strings.TrimSpace(model))
	b.WriteString("; llm_base_url=")
	b.WriteString(strings.TrimSpace(baseURL))
	b.WriteString("; grounding=")
	if g := strings.TrimSpace(grounding); g != "" {
		b.WriteString(g)
	} else {
		b.WriteString("none")
	}
	b.WriteString("; local_search=")
	if localSearch {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteString("\n")
	return b.String()
}
