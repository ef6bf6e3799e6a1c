package cases

import (
	"errors"
	"fmt"

	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/override"
)

// Reserved keys of a batch document and of each case record.
const (
	CasesKey      = "cases"
	CaseKey       = "case"
	OutputTypeKey = "output_type"
)

var (
	// ErrNotBatch is returned when a changes document has no top-level cases sequence.
	ErrNotBatch = errors.New("changes document has no top-level cases sequence")

	// ErrMissingCaseID is returned when a case record has no case key.
	ErrMissingCaseID = errors.New("case record has no case key")

	// ErrInvalidCase is returned when a case record is not a mapping or its metadata is not a scalar.
	ErrInvalidCase = errors.New("invalid case record")
)

// Case is one named bundle of overrides.
type Case struct {
	// ID is the text of the case scalar.
	ID string
	// OutputType names the emitted artifacts. It defaults to ID.
	OutputType string
	// Overrides are the record's path keys in record order.
	Overrides []override.Override
	// Record is the case as written in the changes document.
	Record *document.Mapping
}

// Batch is an ordered list of cases.
type Batch struct {
	Cases []Case
}

// Len returns the number of cases.
func (b *Batch) Len() int {
	return len(b.Cases)
}

// IsBatch reports whether doc is a mapping with a top-level cases sequence.
func IsBatch(doc document.Node) bool {
	m, ok := doc.(*document.Mapping)
	if !ok {
		return false
	}

	v, ok := m.Get(CasesKey)
	if !ok {
		return false
	}

	_, ok = v.(*document.Sequence)

	return ok
}

// ParseBatch reads the cases of a batch changes document. Source names the document
// in errors. Path keys are parsed with policy; nil means docpath.NumericIndex.
func ParseBatch(doc document.Node, source string, policy docpath.Policy) (*Batch, error) {
	if !IsBatch(doc) {
		return nil, &errs.DocumentLoadError{Source: source, Cause: ErrNotBatch}
	}

	raw, _ := doc.(*document.Mapping).Get(CasesKey)
	items := raw.(*document.Sequence).Items //nolint:forcetypeassert // checked by IsBatch

	batch := &Batch{Cases: make([]Case, 0, len(items))}

	for i, item := range items {
		c, err := parseCase(item, policy)
		if err != nil {
			return nil, &errs.DocumentLoadError{
				Source:  source,
				Message: fmt.Sprintf("cases item %d", i),
				Cause:   err,
			}
		}

		batch.Cases = append(batch.Cases, c)
	}

	return batch, nil
}

func parseCase(item document.Node, policy docpath.Policy) (Case, error) {
	record, ok := item.(*document.Mapping)
	if !ok {
		return Case{}, fmt.Errorf("%w: want a mapping, got %s", ErrInvalidCase, kindOf(item))
	}

	idNode, ok := record.Get(CaseKey)
	if !ok {
		return Case{}, ErrMissingCaseID
	}

	id, err := scalarText(CaseKey, idNode)
	if err != nil {
		return Case{}, err
	}

	c := Case{ID: id, OutputType: id, Record: record}

	for _, e := range record.Entries {
		switch e.Key {
		case CaseKey:
			continue
		case OutputTypeKey:
			outputType, err := scalarText(OutputTypeKey, e.Value)
			if err != nil {
				return Case{}, err
			}

			if outputType != "" {
				c.OutputType = outputType
			}

			continue
		}

		path, err := docpath.Parse(e.Key, policy)
		if err != nil {
			return Case{}, fmt.Errorf("key %q: %w", e.Key, err)
		}

		c.Overrides = append(c.Overrides, override.Override{Path: path, Value: e.Value})
	}

	return c, nil
}

func scalarText(key string, n document.Node) (string, error) {
	s, ok := n.(*document.Scalar)
	if !ok || s.IsNull() {
		return "", fmt.Errorf("%w: %s must be a non-null scalar, got %s", ErrInvalidCase, key, kindOf(n))
	}

	return s.String(), nil
}

func kindOf(n document.Node) string {
	if document.IsNull(n) {
		return "null"
	}

	return n.Kind().String()
}
