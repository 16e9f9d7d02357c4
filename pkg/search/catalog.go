package search

import "strings"

// Source describes one upstream feed the analytics service ingests from.
type Source struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	URL         string `yaml:"url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// SourceCount is a catalog entry annotated with its live document count.
type SourceCount struct {
	Source
	Count int
}

// DefaultCatalog returns the curated list of known sources.
func DefaultCatalog() []Source {
	return []Source{
		{Name: "arXiv", Kind: "Research papers", URL: "https://arxiv.org", Description: "Preprints across CS and physics"},
		{Name: "GitHub Trending", Kind: "Repositories", URL: "https://github.com/trending", Description: "Fast-rising open source projects"},
		{Name: "HackerNews", Kind: "Tech news", URL: "https://news.ycombinator.com", Description: "Community-ranked technology stories"},
		{Name: "TechCrunch", Kind: "Industry news", URL: "https://techcrunch.com", Description: "Startup and funding coverage"},
		{Name: "IEEE Spectrum", Kind: "Engineering", URL: "https://spectrum.ieee.org", Description: "Engineering and applied science"},
		{Name: "Wired", Kind: "Magazine", URL: "https://www.wired.com", Description: "Technology and culture"},
	}
}

// AnnotateCatalog pairs every catalog source with its count. Sources with no
// documents report 0. Names are compared case-insensitively ("ArXiv" counts
// toward "arXiv").
func AnnotateCatalog(catalog []Source, counts map[string]int) []SourceCount {
	folded := make(map[string]int, len(counts))
	for name, n := range counts {
		folded[strings.ToLower(strings.TrimSpace(name))] += n
	}
	out := make([]SourceCount, len(catalog))
	for i, src := range catalog {
		out[i] = SourceCount{
			Source: src,
			Count:  folded[strings.ToLower(strings.TrimSpace(src.Name))],
		}
	}
	return out
}
