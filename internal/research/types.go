package research

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSummaryItems caps the ranked summary returned by the model.
const MaxSummaryItems = 15

// Depth selects how thorough the model is asked to be.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthExtended Depth = "extended"
	DepthMaximum  Depth = "maximum"
)

var depthLabels = map[Depth]string{
	DepthBasic:    "базовая",
	DepthExtended: "расширенная",
	DepthMaximum:  "максимальная",
}

// Depths returns the selectable depths in display order.
func Depths() []Depth {
	return []Depth{DepthBasic, DepthExtended, DepthMaximum}
}

// Label is the wording sent to the model and shown in the form.
func (d Depth) Label() string {
	if l, ok := depthLabels[d]; ok {
		return l
	}
	return depthLabels[DepthBasic]
}

// Title is the capitalized label used on buttons.
func (d Depth) Title() string {
	return cases.Title(language.Russian).String(d.Label())
}

// ParseDepth accepts either the identifier ("extended") or the Russian label
// ("расширенная"). Anything else maps to DepthBasic.
func ParseDepth(s string) Depth {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Depths() {
		if s == string(d) || s == d.Label() {
			return d
		}
	}
	return DepthBasic
}

// Params are the research parameters collected from the form.
type Params struct {
	Topic     string `json:"topic"`
	Subthemes string `json:"subthemes,omitempty"`
	Audience  string `json:"targetAudience,omitempty"`
	Depth     Depth  `json:"depth"`
}

// Validate reports ErrEmptyTopic when the topic is blank.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Topic) == "" {
		return ErrEmptyTopic
	}
	return nil
}

// SubthemeList splits the comma-separated subthemes, dropping blanks.
func (p Params) SubthemeList() []string {
	parts := strings.Split(p.Subthemes, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Score is an integer score. The model sometimes emits fractional numbers or
// numeric strings; both are accepted and rounded.
type Score int

func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*s = Score(math.Round(f))
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return fmt.Errorf("score %q is not a number", str)
	}
	*s = Score(math.Round(f))
	return nil
}

// Theme is a single audience pain within a cluster.
type Theme struct {
	Title     string   `json:"title"`
	Pain      string   `json:"pain"`
	Query     string   `json:"query"`
	Frequency string   `json:"frequency"`
	Score     Score    `json:"score"`
	Comments  []string `json:"comments"`
}

// Cluster groups related themes.
type Cluster struct {
	Name   string  `json:"name"`
	Themes []Theme `json:"themes"`
}

// SummaryItem is one row of the ranked summary. Ordering comes from the model.
type SummaryItem struct {
	Title     string `json:"title"`
	Cluster   string `json:"cluster"`
	PainShort string `json:"painShort"`
	Score     Score  `json:"score"`
}

// Result is the parsed model payload.
type Result struct {
	Clusters []Cluster     `json:"clusters"`
	Top15    []SummaryItem `json:"top15"`
}

// Problems lists schema gaps in r. It never modifies r; callers decide
// whether to act on them.
func (r *Result) Problems() []string {
	if r == nil {
		return []string{"result is nil"}
	}
	var out []string
	if len(r.Clusters) == 0 {
		out = append(out, "no clusters")
	}
	if len(r.Top15) == 0 {
		out = append(out, "empty top15")
	}
	for i, c := range r.Clusters {
		if strings.TrimSpace(c.Name) == "" {
			out = append(out, fmt.Sprintf("cluster %d has no name", i+1))
		}
		for j, t := range c.Themes {
			if strings.TrimSpace(t.Title) == "" {
				out = append(out, fmt.Sprintf("cluster %d theme %d has no title", i+1, j+1))
			}
			if t.Score < 0 || t.Score > 100 {
				out = append(out, fmt.Sprintf("cluster %d theme %d score %d out of range", i+1, j+1, t.Score))
			}
		}
	}
	for i, it := range r.Top15 {
		if it.Score < 0 || it.Score > 100 {
			out = append(out, fmt.Sprintf("top15 item %d score %d out of range", i+1, it.Score))
		}
	}
	return out
}
