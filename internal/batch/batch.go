// Package batch verifies whole folders of scholarship documents in one
// run. Files are mapped to document types by their name, and optionally
// to students by their parent directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// Verifier is the pipeline surface batch processing needs.
type Verifier interface {
	Verify(ctx context.Context, raw []byte, docType document.Type,
		studentID string, category document.Category) (document.Verdict, error)
}

// Item is one document scheduled for verification.
type Item struct {
	Path      string        `json:"path"`
	StudentID string        `json:"student_id,omitempty"`
	DocType   document.Type `json:"document_type"`
}

// Outcome is the verdict for one item.
type Outcome struct {
	Item     Item             `json:"item"`
	Verdict  document.Verdict `json:"verdict"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration_ns"`
}

// Result aggregates a whole batch run.
type Result struct {
	Outcomes    []Outcome     `json:"outcomes"`
	Approved    int           `json:"approved"`
	Rejected    int           `json:"rejected"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration_ns"`
	WorkerCount int           `json:"worker_count"`
}

// ProcessBatch verifies all documents found under the given paths.
func ProcessBatch(ctx context.Context, verifier Verifier, paths []string, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	files, err := discoverDocumentFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover document files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no document files found")
	}

	items, err := buildItems(files, paths, config)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes, err := processItemsParallel(ctx, verifier, items, config)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Outcomes:    outcomes,
		Duration:    time.Since(start),
		WorkerCount: config.Workers,
	}
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			result.Failed++
		case o.Verdict.Approved():
			result.Approved++
		default:
			result.Rejected++
		}
	}
	return result, nil
}

// processItemsParallel runs the verifier over all items on a bounded
// worker pool, keeping outcomes in input order.
func processItemsParallel(ctx context.Context, verifier Verifier, items []Item, config *Config) ([]Outcome, error) {
	outcomes := make([]Outcome, len(items))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)

	for i, item := range items {
		g.Go(func() error {
			outcome := verifyItem(ctx, verifier, item, config.Category)

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()

			if outcome.Error != "" && !config.ContinueOnError {
				return fmt.Errorf("verification of %s failed: %s", item.Path, outcome.Error)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func verifyItem(ctx context.Context, verifier Verifier, item Item, category document.Category) Outcome {
	start := time.Now()

	data, err := os.ReadFile(item.Path)
	if err != nil {
		return Outcome{Item: item, Error: err.Error(), Duration: time.Since(start)}
	}

	verdict, err := verifier.Verify(ctx, data, item.DocType, item.StudentID, category)
	if err != nil {
		return Outcome{Item: item, Verdict: verdict, Error: err.Error(), Duration: time.Since(start)}
	}
	return Outcome{Item: item, Verdict: verdict, Duration: time.Since(start)}
}
