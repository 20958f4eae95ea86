package render

import (
	"strings"
	"testing"

	"github.com/hyperifyio/painresearch/internal/research"
)

func sample() *research.Result {
	return &research.Result{
		Clusters: []research.Cluster{
			{Name: "Зарядка", Themes: []research.Theme{
				{Title: "Нет станций", Pain: "Негде <b>зарядиться</b>!", Query: "где зарядить", Frequency: "высокая", Score: 92, Comments: []string{"третий", "первый", "второй"}},
				{Title: "Долго", Pain: "Час стою", Score: 60},
			}},
			{Name: "Цена", Themes: []research.Theme{{Title: "Дорого", Score: 81}}},
		},
		Top15: []research.SummaryItem{
			{Title: "Нет станций", Cluster: "Зарядка", PainShort: "негде", Score: 92},
			{Title: "Долго", Cluster: "Зарядка", PainShort: "долго", Score: 60},
			{Title: "Дорого", Cluster: "Цена", PainShort: "a|b", Score: 81},
		},
	}
}

func TestBandFor(t *testing.T) {
	cases := map[int]Band{81: BandStrong, 100: BandStrong, 80: BandModerate, 0: BandModerate}
	for score, want := range cases {
		if got := BandFor(score); got != want {
			t.Fatalf("BandFor(%d)=%s, want %s", score, got, want)
		}
	}
}

func TestBuild_KeepsOrderAndPositions(t *testing.T) {
	rep := Build(sample(), "Электромобили")
	if len(rep.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rep.Rows))
	}
	// Scores are not re-sorted: 92, 60, 81 stays as given.
	if rep.Rows[1].Score != 60 || rep.Rows[2].Score != 81 || rep.Rows[2].Position != 3 {
		t.Fatalf("rows reordered: %+v", rep.Rows)
	}
	if rep.Rows[0].Band != BandStrong || rep.Rows[1].Band != BandModerate {
		t.Fatalf("unexpected bands: %+v", rep.Rows)
	}
	if rep.Clusters[0].Name != "Зарядка" || rep.Clusters[1].Name != "Цена" {
		t.Fatalf("clusters reordered")
	}
	got := strings.Join(rep.Clusters[0].Themes[0].Comments, ",")
	if got != "третий,первый,второй" {
		t.Fatalf("comments reordered: %s", got)
	}
	if rep.Clusters[0].Themes[1].Number != 2 {
		t.Fatalf("theme numbering should be 1-based within a cluster")
	}
}

func TestBuild_StripsMarkup(t *testing.T) {
	rep := Build(sample(), "t")
	if got := rep.Clusters[0].Themes[0].Pain; got != "Негде зарядиться!" {
		t.Fatalf("markup not stripped: %q", got)
	}
}

func TestBuild_NilResult(t *testing.T) {
	rep := Build(nil, "t")
	if rep.Topic != "t" || len(rep.Rows) != 0 || len(rep.Clusters) != 0 {
		t.Fatalf("unexpected report for nil result: %+v", rep)
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := Build(sample(), "Электромобили").Markdown()
	if !strings.Contains(md, "Рубрика: Электромобили") {
		t.Fatalf("missing topic line:\n%s", md)
	}
	if strings.Count(md, "## Кластер: ") != 2 {
		t.Fatalf("expected two cluster sections:\n%s", md)
	}
	if !strings.Contains(md, `a\|b`) {
		t.Fatalf("pipes in cells must be escaped:\n%s", md)
	}
	if strings.Count(md, "> «") != 3 {
		t.Fatalf("expected three quoted comments:\n%s", md)
	}
}
