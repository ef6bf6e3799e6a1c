package cases

import (
	"context"
	"fmt"

	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/override"
)

// Result is what the expander emits for one case.
type Result struct {
	CaseID     string
	OutputType string
	// Document is a snapshot taken after the case was applied. Later cases do not change it.
	Document document.Node
	// Record is the case as written in the changes document.
	Record *document.Mapping
}

// Report lists the progress of an expansion.
type Report struct {
	// Completed holds the IDs of the cases emitted successfully, in order.
	Completed []string
	// Failed is the ID of the case that stopped the expansion, empty on success.
	Failed string
}

// CaseError wraps the failure of a single case.
type CaseError struct {
	CaseID string
	// Index is the position of the case in the batch.
	Index int
	Err   error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("case %s (#%d): %v", e.CaseID, e.Index+1, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// Expander applies a batch to a document.
//
// By default the document carries state from case to case: case N sees the
// overrides of cases 1..N. With Fresh set every case starts from the document as
// it was when Expand was called.
type Expander struct {
	Fresh bool
}

// Expand applies each case in order and calls emit with its result. It stops at
// the first failure and returns the report together with a *CaseError.
// In state carry mode doc is mutated; in fresh mode it is left untouched.
func (x Expander) Expand(
	ctx context.Context,
	doc document.Node,
	batch *Batch,
	emit func(Result) error,
) (*Report, error) {
	report := &Report{Completed: make([]string, 0, batch.Len())}

	base := doc
	if x.Fresh {
		base = document.Clone(doc)
	}

	for i, c := range batch.Cases {
		err := ctx.Err()
		if err != nil {
			return report.fail(c, i, err)
		}

		working := doc
		if x.Fresh {
			working = document.Clone(base)
		}

		_, err = override.Apply(working, c.Overrides)
		if err != nil {
			return report.fail(c, i, err)
		}

		err = emit(Result{
			CaseID:     c.ID,
			OutputType: c.OutputType,
			Document:   document.Clone(working),
			Record:     c.Record,
		})
		if err != nil {
			return report.fail(c, i, err)
		}

		report.Completed = append(report.Completed, c.ID)
	}

	return report, nil
}

func (r *Report) fail(c Case, index int, err error) (*Report, error) {
	r.Failed = c.ID

	return r, &CaseError{CaseID: c.ID, Index: index, Err: err}
}

// ExpandAll collects every result. On failure the results emitted before it are returned.
func (x Expander) ExpandAll(ctx context.Context, doc document.Node, batch *Batch) ([]Result, *Report, error) {
	results := make([]Result, 0, batch.Len())

	report, err := x.Expand(ctx, doc, batch, func(r Result) error {
		results = append(results, r)

		return nil
	})

	return results, report, err
}
