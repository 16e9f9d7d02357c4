package search

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

func sampleDocs() []model.Document {
	return []model.Document{
		{ID: "1", Source: "arXiv", Title: "Quantum error correction", Text: "Logical qubits at scale", Technology: "Quantum Computing"},
		{ID: "2", Source: "HackerNews", Title: "Show HN: a Rust web server", Text: "", Technology: "Rust"},
		{ID: "3", Source: "GitHub Trending", Title: "llama.cpp", Text: "Inference of LLMs in plain C", Technology: "Large Language Models"},
		{ID: "4", Source: "ArXiv", Title: "", Text: "", Technology: ""},
	}
}

func ids(docs []model.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestFilterDocuments(t *testing.T) {
	docs := sampleDocs()
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query matches all", "", []string{"1", "2", "3", "4"}},
		{"title match case-folded", "QUANTUM", []string{"1"}},
		{"text match", "plain c", []string{"3"}},
		{"technology match", "rust", []string{"2"}},
		{"multi-field match keeps order", "r", []string{"1", "2", "3"}},
		{"no match", "blockchain", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterDocuments(docs, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterDocuments(%q) = %v; want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterDocuments_EmptyFieldsDoNotMatchOrPanic(t *testing.T) {
	docs := []model.Document{{ID: "x"}}
	if got := FilterDocuments(docs, "a"); len(got) != 0 {
		t.Errorf("expected no match on empty fields, got %v", got)
	}
}

func TestFilterDocuments_IdempotentProperty(t *testing.T) {
	docGen := rapid.Custom(func(t *rapid.T) model.Document {
		return model.Document{
			ID:         rapid.StringMatching(`[a-z0-9]{1,6}`).Draw(t, "id"),
			Title:      rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "title"),
			Text:       rapid.StringMatching(`[A-Za-z ]{0,24}`).Draw(t, "text"),
			Technology: rapid.StringMatching(`[A-Za-z]{0,8}`).Draw(t, "tech"),
		}
	})
	rapid.Check(t, func(t *rapid.T) {
		docs := rapid.SliceOfN(docGen, 0, 20).Draw(t, "docs")
		query := rapid.StringMatching(`[A-Za-z]{0,3}`).Draw(t, "query")

		if all := FilterDocuments(docs, ""); !reflect.DeepEqual(ids(all), ids(docs)) {
			t.Fatalf("empty query changed documents")
		}
		once := FilterDocuments(docs, query)
		twice := FilterDocuments(once, query)
		if !reflect.DeepEqual(ids(once), ids(twice)) {
			t.Fatalf("filter not idempotent for %q: %v vs %v", query, ids(once), ids(twice))
		}
	})
}

func TestCountBySourceAndCatalog(t *testing.T) {
	counts := CountBySource(sampleDocs())
	if counts["arXiv"] != 1 || counts["ArXiv"] != 1 || counts["HackerNews"] != 1 {
		t.Fatalf("CountBySource = %v", counts)
	}

	annotated := AnnotateCatalog(DefaultCatalog(), counts)
	if len(annotated) != len(DefaultCatalog()) {
		t.Fatalf("annotated %d sources; want %d", len(annotated), len(DefaultCatalog()))
	}
	got := make(map[string]int)
	for _, sc := range annotated {
		if sc.Count < 0 {
			t.Errorf("%s has negative count", sc.Name)
		}
		got[sc.Name] = sc.Count
	}
	want := map[string]int{
		"arXiv": 2, "GitHub Trending": 1, "HackerNews": 1,
		"TechCrunch": 0, "IEEE Spectrum": 0, "Wired": 0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("annotated counts = %v; want %v", got, want)
	}
}

func TestAnnotateCatalog_NoDocuments(t *testing.T) {
	for _, sc := range AnnotateCatalog(DefaultCatalog(), CountBySource(nil)) {
		if sc.Count != 0 {
			t.Errorf("%s = %d; want 0", sc.Name, sc.Count)
		}
	}
}
