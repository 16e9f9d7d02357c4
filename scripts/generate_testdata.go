//go:build ignore

// generate_testdata.go writes sample offline data directories for
// trendscope -dir.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/sample/small   (4 topics, 6 months, 12 documents)
//	testdata/sample/default (8 topics, 12 months, 24 documents)
//	testdata/sample/large   (40 topics, 36 months, 2000 documents)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/trendscope/pkg/testutil"
)

type datasetSpec struct {
	name      string
	topics    int
	months    int
	documents int
}

var datasets = []datasetSpec{
	{"small", 4, 6, 12},
	{"default", 8, 12, 24},
	{"large", 40, 36, 2000},
}

func main() {
	outputDir := filepath.Join("testdata", "sample")

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d topics)...\n", ds.name, ds.topics)

		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.topics*1000 + ds.months)
		cfg.Topics = topicNames(ds.topics)
		cfg.HistoryMonths = ds.months
		cfg.Documents = ds.documents

		p := testutil.New(cfg).Payload()
		dir := filepath.Join(outputDir, ds.name)
		if err := testutil.WriteSnapshot(dir, p, testutil.Briefs(p.Trends)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dir, err)
			os.Exit(1)
		}
		fmt.Printf("  Wrote %s\n", dir)
	}
}

func topicNames(n int) []string {
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < len(testutil.DefaultTopics) {
			names = append(names, testutil.DefaultTopics[i])
			continue
		}
		names = append(names, fmt.Sprintf("Topic %02d", i+1))
	}
	return names
}
