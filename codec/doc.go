// Package codec loads and dumps YAML documents as document.Node trees.
//
// It uses github.com/goccy/go-yaml with ordered maps so that mapping keys keep
// their order, and a comment map so that comments survive a load, mutate and
// dump cycle. There is no shared parser instance: every call receives an
// explicit Options value.
//
// Usage:
//
//	opts := codec.DefaultOptions()
//	file, err := codec.Load(data, "base.yaml", opts)
//	if err != nil {
//	    // errors.Is(err, errs.ErrDocumentLoad)
//	}
//	out, err := file.Dump(opts)
//
// Options:
//   - PreserveOrder: emit mapping keys in document order (false sorts keys)
//   - PreserveComments: carry comments from the loaded source into the output
//   - IndentWidth: spaces per nesting level (default 2)
//   - IndentSequence: indent block sequences under their parent key
package codec
