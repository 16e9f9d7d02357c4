package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/trendscope/pkg/debug"
	"github.com/vanderheijden86/trendscope/pkg/metrics"
	"github.com/vanderheijden86/trendscope/pkg/model"
)

// Part names one of the initial fetches.
type Part string

const (
	PartTrends    Part = "trends"
	PartClusters  Part = "clusters"
	PartSummary   Part = "summary"
	PartDocuments Part = "documents"
)

// BulkLoadError reports that a required part of the initial load failed.
type BulkLoadError struct {
	Part Part
	Err  error
}

func (e *BulkLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Part, e.Err)
}

func (e *BulkLoadError) Unwrap() error {
	return e.Err
}

// IsBulkLoadError reports whether err is, or wraps, a BulkLoadError.
func IsBulkLoadError(err error) bool {
	var ble *BulkLoadError
	return errors.As(err, &ble)
}

// LoadPayload runs the four initial fetches concurrently and joins them.
//
// Trends, clusters and summary are required: if any fails the result is a
// *BulkLoadError naming the first failed part in that order. A documents
// failure is logged and replaced with an empty list. Fetches are not
// cancelled when a sibling fails.
func LoadPayload(ctx context.Context, src Source) (model.Payload, error) {
	defer metrics.Timer(metrics.BulkLoad)()
	defer debug.LogEnterExit("LoadPayload")()
	start := time.Now()

	var (
		p                                  model.Payload
		trendsErr, clustersErr, summaryErr error
		g                                  errgroup.Group
	)

	g.Go(func() error {
		p.Trends, trendsErr = src.Trends(ctx)
		return nil
	})
	g.Go(func() error {
		p.Clusters, clustersErr = src.Clusters(ctx)
		return nil
	})
	g.Go(func() error {
		p.Summary, summaryErr = src.Summary(ctx)
		return nil
	})
	g.Go(func() error {
		docs, err := src.Documents(ctx)
		if err != nil {
			debug.Log("documents fetch failed, continuing without documents: %v", err)
			docs = nil
		}
		if docs == nil {
			docs = []model.Document{}
		}
		p.Documents = docs
		return nil
	})
	_ = g.Wait()

	for _, part := range []struct {
		name Part
		err  error
	}{
		{PartTrends, trendsErr},
		{PartClusters, clustersErr},
		{PartSummary, summaryErr},
	} {
		if part.err != nil {
			return model.Payload{}, &BulkLoadError{Part: part.name, Err: part.err}
		}
	}

	p.LoadedAt = time.Now()
	debug.LogTiming("bulk_load", time.Since(start))
	return p, nil
}
