package search

import (
	"strings"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

// DocumentFields returns the fields matched by FilterDocuments: title, text
// and technology.
func DocumentFields(doc model.Document) []string {
	return []string{doc.Title, doc.Text, doc.Technology}
}

// MatchDocument reports whether the case-folded query occurs in any matched
// field. An empty query matches every document.
func MatchDocument(doc model.Document, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, field := range DocumentFields(doc) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// FilterDocuments returns the documents matching query in their original
// order. A linear scan is fine for corpora of a few thousand documents.
func FilterDocuments(docs []model.Document, query string) []model.Document {
	if query == "" {
		out := make([]model.Document, len(docs))
		copy(out, docs)
		return out
	}
	var out []model.Document
	for _, doc := range docs {
		if MatchDocument(doc, query) {
			out = append(out, doc)
		}
	}
	return out
}

// CountBySource counts documents per source name.
func CountBySource(docs []model.Document) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		counts[doc.Source]++
	}
	return counts
}
