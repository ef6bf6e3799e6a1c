package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0xalexb/yamlcase/cases"
	"github.com/0xalexb/yamlcase/codec"
	filefetcher "github.com/0xalexb/yamlcase/config/fetcher/file"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/introspect"
	"github.com/0xalexb/yamlcase/output"
	"github.com/0xalexb/yamlcase/override"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// ErrMissingInput is returned when no input document is named.
	ErrMissingInput = errors.New("an input file is required: pass it as an argument or with --input-file")

	// ErrConflictingInput is returned when the argument and --input-file disagree.
	ErrConflictingInput = errors.New("input file given twice with different values")

	// ErrBadChanges is returned for a changes file that is neither a batch nor a flat mapping.
	ErrBadChanges = errors.New("want a cases list or a mapping of paths to values")
)

// runFlags are the flags of the root command itself.
type runFlags struct {
	input   string
	changes string
	output  string
	paths   []string
	values  []string
	leaves  bool
	tree    bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.input, "input-file", "i", "", "YAML document to modify (- for stdin)")
	fs.StringVarP(&f.changes, "changes-file", "c", "", "Batch or flat changes file")
	fs.StringVarP(&f.output, "output", "o", "", "Output directory (batch) or file/directory (flat); print when empty")
	fs.StringArrayVarP(&f.paths, "path", "p", nil, "Path to change, paired with --value by position")
	fs.StringArrayVarP(&f.values, "value", "V", nil, "YAML value for the --path at the same position")
	fs.BoolVar(&f.leaves, "inputargprint", false, "Print every leaf path of the input before changing it")
	fs.BoolVar(&f.tree, "keyvals", false, "Print every path of the input with its kind or value")
}

func (f *runFlags) inputPath(args []string) (string, error) {
	switch {
	case len(args) == 0 && f.input == "":
		return "", ErrMissingInput
	case len(args) == 0:
		return f.input, nil
	case f.input != "" && f.input != args[0]:
		return "", fmt.Errorf("%w: %q and %q", ErrConflictingInput, args[0], f.input)
	default:
		return args[0], nil
	}
}

func (st *state) execute(cmd *cobra.Command, args []string) error {
	inputPath, err := st.run.inputPath(args)
	if err != nil {
		return err
	}

	opts := st.settings.Codec
	stdout := cmd.OutOrStdout()

	input, err := loadDocument(inputPath, opts)
	if err != nil {
		return err
	}

	if st.run.leaves {
		for leaf := range introspect.Leaves(input.Root) {
			fmt.Fprintln(stdout, leaf)
		}
	}

	if st.run.tree {
		for entry := range introspect.Tree(input.Root) {
			fmt.Fprintln(stdout, entry)
		}
	}

	policy := st.settings.SegmentPolicy()

	pairs, err := override.FromPairs(st.run.paths, st.run.values, policy)
	if err != nil {
		return err
	}

	if st.run.changes == "" {
		if len(pairs) == 0 {
			if !st.run.leaves && !st.run.tree {
				st.logger.Warn("nothing to do: no changes file and no --path/--value pairs")
			}

			return nil
		}

		return st.writeFlat(stdout, inputPath, input, pairs)
	}

	changes, err := loadDocument(st.run.changes, opts)
	if err != nil {
		return err
	}

	if cases.IsBatch(changes.Root) {
		return st.expand(cmd.Context(), stdout, cmd.ErrOrStderr(), input, changes, pairs)
	}

	flat, isMapping := changes.Root.(*document.Mapping)
	if !isMapping {
		return &errs.DocumentLoadError{Source: changes.Source, Cause: ErrBadChanges}
	}

	overrides, err := override.FromMapping(flat, policy)
	if err != nil {
		return err
	}

	return st.writeFlat(stdout, inputPath, input, append(overrides, pairs...))
}

// writeFlat applies overrides once and writes or prints the document.
// inputPath is the path as given, "-" for standard input.
func (st *state) writeFlat(stdout io.Writer, inputPath string, input *codec.File, overrides []override.Override) error {
	opts := st.settings.Codec

	_, err := override.Apply(input.Root, overrides)
	if err != nil {
		return err
	}

	st.logger.Info("changes applied", "source", input.Source, "overrides", len(overrides))

	if st.run.output == "" {
		return output.NewConsole(stdout, opts, input.Comments).Document(input.Root)
	}

	target, err := output.FlatTarget(st.run.output, inputPath)
	if err != nil {
		return err
	}

	data, err := input.Dump(opts)
	if err != nil {
		return &errs.OutputWriteError{Path: target, Op: "encode", Cause: err}
	}

	err = output.WriteFile(target, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Modified data has been written to %s\n", target)

	return nil
}

// expand runs a batch. Command line pairs are applied to the input first.
func (st *state) expand(
	ctx context.Context,
	stdout, stderr io.Writer,
	input, changes *codec.File,
	pairs []override.Override,
) error {
	opts := st.settings.Codec

	batch, err := cases.ParseBatch(changes.Root, changes.Source, st.settings.SegmentPolicy())
	if err != nil {
		return err
	}

	_, err = override.Apply(input.Root, pairs)
	if err != nil {
		return err
	}

	var sink output.Sink = output.NewConsole(stdout, opts, input.Comments)

	if st.run.output != "" {
		dir, dirErr := output.NewDirectory(st.run.output, stdout, opts, input.Comments)
		if dirErr != nil {
			return dirErr
		}

		sink = dir
	}

	st.logger.Info("expanding cases", "source", changes.Source, "cases", batch.Len(), "fresh", st.settings.Fresh)

	report, err := cases.Expander{Fresh: st.settings.Fresh}.Expand(ctx, input.Root, batch, sink.Emit)
	if err != nil {
		fmt.Fprintf(stderr, "Completed %d of %d cases before case %s failed: [%s]\n",
			len(report.Completed), batch.Len(), report.Failed, strings.Join(report.Completed, ", "))

		return err
	}

	return nil
}

// loadDocument reads path, or stdin for "-", and parses it.
func loadDocument(path string, opts codec.Options) (*codec.File, error) {
	fetcher, err := filefetcher.NewFetcher(path)()
	if err != nil {
		return nil, &errs.DocumentLoadError{Source: path, Cause: err}
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, &errs.DocumentLoadError{Source: path, Cause: err}
	}

	return codec.Load(data, fetcher.Source(), opts)
}
