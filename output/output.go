// Package output materializes expanded documents on the console or on disk.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xalexb/yamlcase/cases"
	"github.com/0xalexb/yamlcase/codec"
	filefetcher "github.com/0xalexb/yamlcase/config/fetcher/file"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"

	"github.com/goccy/go-yaml"
)

// Directory layout of a case.
const (
	OutputDir  = "output"
	ConfigDir  = "config"
	Extension  = ".yaml"
	ConfigPart = "_config"

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrUnsafeName is returned for a case ID or output type that would leave the case directory.
	ErrUnsafeName = errors.New("name is not a single path element")
	// ErrStdinToDirectory is returned when standard input is written to a directory target.
	ErrStdinToDirectory = errors.New("input from stdin needs a file path as output, not a directory")
)

// ConsoleBanner is printed once before the first case written to the console.
const ConsoleBanner = "No output file specified. Results will be printed to the console."

// Sink receives expansion results one at a time.
type Sink interface {
	Emit(r cases.Result) error
}

// Console prints every case document to a writer under a Case_<id>: header.
type Console struct {
	w        io.Writer
	opts     codec.Options
	comments yaml.CommentMap
	started  bool
}

// NewConsole returns a console sink. Comments come from the loaded input file and may be nil.
func NewConsole(w io.Writer, opts codec.Options, comments yaml.CommentMap) *Console {
	return &Console{w: w, opts: opts, comments: comments}
}

// Emit prints one case.
func (c *Console) Emit(r cases.Result) error {
	if !c.started {
		c.started = true

		_, err := fmt.Fprintln(c.w, ConsoleBanner)
		if err != nil {
			return &errs.OutputWriteError{Path: "stdout", Op: "write", Cause: err}
		}
	}

	_, err := fmt.Fprintf(c.w, "Case_%s:\n", r.CaseID)
	if err != nil {
		return &errs.OutputWriteError{Path: "stdout", Op: "write", Cause: err}
	}

	return c.Document(r.Document)
}

// Document prints a document without a header.
func (c *Console) Document(root document.Node) error {
	data, err := codec.Dump(root, c.comments, c.opts)
	if err != nil {
		return &errs.OutputWriteError{Path: "stdout", Op: "encode", Cause: err}
	}

	_, err = c.w.Write(data)
	if err != nil {
		return &errs.OutputWriteError{Path: "stdout", Op: "write", Cause: err}
	}

	return nil
}

// Directory writes each case to <root>/<case>/output/<type>.yaml and its record to
// <root>/<case>/config/<type>_config.yaml.
type Directory struct {
	root     string
	log      io.Writer
	opts     codec.Options
	comments yaml.CommentMap
}

// NewDirectory returns a directory sink rooted at dir, made absolute.
// Progress lines go to log.
func NewDirectory(dir string, log io.Writer, opts codec.Options, comments yaml.CommentMap) (*Directory, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, &errs.OutputWriteError{Path: dir, Op: "abs", Cause: err}
	}

	return &Directory{root: root, log: log, opts: opts, comments: comments}, nil
}

// Root returns the absolute output directory.
func (d *Directory) Root() string {
	return d.root
}

// Paths returns the document and record files of a case. Case IDs and output
// types become path elements, so they may not be empty, "." or "..", or hold a
// path separator.
func (d *Directory) Paths(caseID, outputType string) (string, string, error) {
	for _, name := range []string{caseID, outputType} {
		if !safeName(name) {
			return "", "", &errs.OutputWriteError{Path: name, Op: "resolve", Cause: ErrUnsafeName}
		}
	}

	caseDir := filepath.Join(d.root, caseID)

	return filepath.Join(caseDir, OutputDir, outputType+Extension),
		filepath.Join(caseDir, ConfigDir, outputType+ConfigPart+Extension), nil
}

func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`)
}

// Emit writes one case. Existing directories are reused.
func (d *Directory) Emit(r cases.Result) error {
	docPath, configPath, err := d.Paths(r.CaseID, r.OutputType)
	if err != nil {
		return err
	}

	data, err := codec.Dump(r.Document, d.comments, d.opts)
	if err != nil {
		return &errs.OutputWriteError{Path: docPath, Op: "encode", Cause: err}
	}

	err = WriteFile(docPath, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.log, "Modified data for case %s has been written to %s\n", r.CaseID, docPath)

	record, err := codec.Dump(r.Record, nil, d.opts)
	if err != nil {
		return &errs.OutputWriteError{Path: configPath, Op: "encode", Cause: err}
	}

	err = WriteFile(configPath, record)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.log, "Config for case %s has been written to %s\n", r.CaseID, configPath)

	return nil
}

// FlatTarget returns where a single document goes: target itself, or
// target/<base name of input> when target is an existing directory. Input read
// from standard input has no name to reuse, so its target must be a file.
func FlatTarget(target, input string) (string, error) {
	stat, err := os.Stat(target)
	if err != nil || !stat.IsDir() {
		return target, nil
	}

	if input == filefetcher.Stdin {
		return "", &errs.OutputWriteError{Path: target, Op: "resolve", Cause: ErrStdinToDirectory}
	}

	return filepath.Join(target, filepath.Base(input)), nil
}

// WriteFile creates the parent directories of path and writes data to it.
// The close error is reported together with any write error.
func WriteFile(path string, data []byte) (err error) {
	err = os.MkdirAll(filepath.Dir(path), dirPerm)
	if err != nil {
		return &errs.OutputWriteError{Path: filepath.Dir(path), Op: "mkdir", Cause: err}
	}

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return &errs.OutputWriteError{Path: path, Op: "create", Cause: err}
	}

	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			err = errors.Join(err, &errs.OutputWriteError{Path: path, Op: "close", Cause: closeErr})
		}
	}()

	_, err = file.Write(data)
	if err != nil {
		return &errs.OutputWriteError{Path: path, Op: "write", Cause: err}
	}

	return nil
}
