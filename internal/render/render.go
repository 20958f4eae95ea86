// Package render turns a parsed research result into the view model shown in
// the browser and into Markdown for the CLI. It never sorts, filters or
// scores: clusters, themes, comments and summary rows keep the order the model
// produced.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hyperifyio/painresearch/internal/research"
)

// Band is a display-only grouping of scores.
type Band string

const (
	BandStrong   Band = "strong"
	BandModerate Band = "moderate"
)

// StrongThreshold: scores strictly above it render as BandStrong.
const StrongThreshold = 80

// BandFor returns the display band of a score.
func BandFor(score int) Band {
	if score > StrongThreshold {
		return BandStrong
	}
	return BandModerate
}

// Row is one line of the ranked summary table.
type Row struct {
	Position  int
	Title     string
	Cluster   string
	PainShort string
	Score     int
	Band      Band
}

// ThemeCard is the detail block for one theme.
type ThemeCard struct {
	Number    int
	Title     string
	Pain      string
	Query     string
	Frequency string
	Score     int
	Comments  []string
}

// ClusterView groups theme cards under a cluster name.
type ClusterView struct {
	Name   string
	Themes []ThemeCard
}

// Report is the complete view model.
type Report struct {
	Topic    string
	Rows     []Row
	Clusters []ClusterView
}

var strict = bluemonday.StrictPolicy()

// clean strips any markup the model put into a text field and returns plain
// text; escaping is left to the output format.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Build projects res into a Report. A nil result yields an empty report.
func Build(res *research.Result, topic string) Report {
	rep := Report{Topic: topic}
	if res == nil {
		return rep
	}
	rep.Rows = make([]Row, 0, len(res.Top15))
	for i, it := range res.Top15 {
		rep.Rows = append(rep.Rows, Row{
			Position:  i + 1,
			Title:     clean(it.Title),
			Cluster:   clean(it.Cluster),
			PainShort: clean(it.PainShort),
			Score:     int(it.Score),
			Band:      BandFor(int(it.Score)),
		})
	}
	rep.Clusters = make([]ClusterView, 0, len(res.Clusters))
	for _, c := range res.Clusters {
		cv := ClusterView{Name: clean(c.Name), Themes: make([]ThemeCard, 0, len(c.Themes))}
		for j, th := range c.Themes {
			comments := make([]string, 0, len(th.Comments))
			for _, cm := range th.Comments {
				comments = append(comments, clean(cm))
			}
			cv.Themes = append(cv.Themes, ThemeCard{
				Number:    j + 1,
				Title:     clean(th.Title),
				Pain:      clean(th.Pain),
				Query:     clean(th.Query),
				Frequency: clean(th.Frequency),
				Score:     int(th.Score),
				Comments:  comments,
			})
		}
		rep.Clusters = append(rep.Clusters, cv)
	}
	return rep
}

// Markdown renders the report for terminals and files.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Отчет об исследовании болей и паттернов Рунета\n\n")
	b.WriteString(fmt.Sprintf("Рубрика: %s\n\n", r.Topic))
	b.WriteString("## ОБЩИЙ ИТОГ: ТОП-15 САМЫХ ВОСТРЕБОВАННЫХ ТЕМ\n\n")
	b.WriteString("| # | Тема | Кластер | Боль | Балл |\n")
	b.WriteString("|---|------|---------|------|------|\n")
	for _, row := range r.Rows {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | \"%s\" | %d (%s) |\n",
			row.Position, cell(row.Title), cell(row.Cluster), cell(row.PainShort), row.Score, row.Band))
	}
	for _, c := range r.Clusters {
		b.WriteString(fmt.Sprintf("\n## Кластер: %s\n", c.Name))
		for _, th := range c.Themes {
			b.WriteString(fmt.Sprintf("\n### %d. %s\n\n", th.Number, th.Title))
			b.WriteString(fmt.Sprintf("**Боль аудитории:** «%s»\n\n", th.Pain))
			b.WriteString(fmt.Sprintf("- Запрос (Wordstat): «%s»\n", th.Query))
			b.WriteString(fmt.Sprintf("- Частотность: %s\n", th.Frequency))
			b.WriteString(fmt.Sprintf("- Итоговый балл: %d\n", th.Score))
			if len(th.Comments) > 0 {
				b.WriteString("\nГолоса из Рунета:\n\n")
				for _, cm := range th.Comments {
					b.WriteString("> «")
					b.WriteString(strings.ReplaceAll(cm, "\n", " "))
					b.WriteString("»\n>\n")
				}
			}
		}
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
