package export

import (
	"fmt"
	"strconv"

	"github.com/hyperifyio/painresearch/internal/render"
)

// Document is the format-neutral layout shared by the DOCX and PDF writers.
type Document struct {
	Title          string
	Subtitle       string
	SummaryHeading string
	Header         []string
	Rows           [][]string
	Sections       []Section
}

// Section is one cluster.
type Section struct {
	Heading string
	Themes  []ThemeBlock
}

// ThemeBlock is one theme inside a cluster section.
type ThemeBlock struct {
	Heading   string
	Pain      string
	Query     string
	Frequency string
	Score     string
	Comments  []string
}

// Labels used in the document body.
const (
	labelPain      = "Боль аудитории: "
	labelQuery     = "Запрос Wordstat: "
	labelFrequency = "Частотность: "
	labelScore     = "Итоговый балл: "
	labelComments  = "Реальные комментарии:"
)

// NewDocument lays out a report. The summary table drops the short-pain
// column shown on screen.
func NewDocument(rep render.Report) Document {
	doc := Document{
		Title:          "Отчет об исследовании болей и паттернов Рунета",
		Subtitle:       "Рубрика: " + rep.Topic,
		SummaryHeading: "ОБЩИЙ ИТОГ: ТОП-15 САМЫХ ВОСТРЕБОВАННЫХ ТЕМ",
		Header:         []string{"#", "Тема", "Кластер", "Балл"},
		Rows:           make([][]string, 0, len(rep.Rows)),
		Sections:       make([]Section, 0, len(rep.Clusters)),
	}
	for _, r := range rep.Rows {
		doc.Rows = append(doc.Rows, []string{strconv.Itoa(r.Position), r.Title, r.Cluster, strconv.Itoa(r.Score)})
	}
	for _, c := range rep.Clusters {
		sec := Section{Heading: "Кластер: " + c.Name, Themes: make([]ThemeBlock, 0, len(c.Themes))}
		for _, th := range c.Themes {
			sec.Themes = append(sec.Themes, ThemeBlock{
				Heading:   fmt.Sprintf("%d. %s", th.Number, th.Title),
				Pain:      "«" + th.Pain + "»",
				Query:     th.Query,
				Frequency: th.Frequency,
				Score:     strconv.Itoa(th.Score),
				Comments:  th.Comments,
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc
}
