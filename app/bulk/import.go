// Package bulk loads and dumps the catalogue in JSON form: the import
// restocks many submissions concurrently and the export writes a snapshot
// to a storage disk.
package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/validate"
	"github.com/shashiranjanraj/inventory/pkg/workerpool"
)

// Failure is one submission the import could not apply.
type Failure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Error string `json:"error"`
}

// Report summarises an import.
type Report struct {
	Created  int       `json:"created"`
	Merged   int       `json:"merged"`
	Units    int       `json:"units"`
	Failures []Failure `json:"failures,omitempty"`
}

// Restocker is the part of the product service the importer needs.
type Restocker interface {
	Restock(ctx context.Context, sub services.ProductSubmission) (*services.Outcome, error)
}

// Decode reads a JSON array of submissions.
func Decode(r io.Reader) ([]services.ProductSubmission, error) {
	var subs []services.ProductSubmission
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("bulk: decode submissions: %w", err)
	}
	return subs, nil
}

// Import restocks subs on a pool of workers. Invalid or failing items are
// reported and do not stop the others; only ctx ending stops the import.
func Import(ctx context.Context, svc Restocker, subs []services.ProductSubmission, workers int) (*Report, error) {
	pool := workerpool.New(workers)

	var (
		mu     sync.Mutex
		report = &Report{}
	)
	fail := func(i int, sub services.ProductSubmission, err error) {
		metrics.ImportItems.WithLabelValues("failed").Inc()
		mu.Lock()
		report.Failures = append(report.Failures, Failure{Index: i, Name: sub.Name, Brand: sub.Brand, Error: err.Error()})
		mu.Unlock()
	}

	var submitErr error
	for i, sub := range subs {
		if errs := validate.Struct(sub); validate.HasErrors(errs) {
			fail(i, sub, fmt.Errorf("%w: %v", services.ErrInvalidInput, errs))
			continue
		}

		i, sub := i, sub
		err := pool.SubmitWait(ctx, func() {
			out, err := svc.Restock(ctx, sub)
			if err != nil {
				fail(i, sub, err)
				return
			}
			metrics.ImportItems.WithLabelValues("ok").Inc()

			mu.Lock()
			defer mu.Unlock()
			if out.Created {
				report.Created++
			} else {
				report.Merged++
			}
			report.Units += sub.Quantity
		})
		if err != nil {
			submitErr = err
			break
		}
	}
	pool.Shutdown()

	sort.Slice(report.Failures, func(a, b int) bool { return report.Failures[a].Index < report.Failures[b].Index })
	logger.WithCtx(ctx).Info("import finished",
		"created", report.Created, "merged", report.Merged, "failed", len(report.Failures))

	if submitErr != nil && !errors.Is(submitErr, workerpool.ErrPoolClosed) {
		return report, submitErr
	}
	return report, nil
}
