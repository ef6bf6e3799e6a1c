package output_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/yamlcase/cases"
	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	base     = "a:\n  b: 1\n  c: [10, 20]\n"
	twoCases = `cases:
  - case: 1
    output_type: x
    "a:b": 5
  - case: 2
    output_type: y
    "a:c:0": 0
`
)

func load(t *testing.T, data string) *codec.File {
	t.Helper()

	file, err := codec.Load([]byte(data), "test", codec.DefaultOptions())
	require.NoError(t, err)

	return file
}

func expand(t *testing.T, sink output.Sink) {
	t.Helper()

	batch, err := cases.ParseBatch(load(t, twoCases).Root, "changes", nil)
	require.NoError(t, err)

	_, err = cases.Expander{}.Expand(context.Background(), load(t, base).Root, batch, sink.Emit)
	require.NoError(t, err)
}

func readDoc(t *testing.T, path string) document.Node {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return load(t, string(data)).Root
}

func scalarAt(t *testing.T, root document.Node, raw string) any {
	t.Helper()

	node, err := docpath.Get(root, docpath.MustParse(raw))
	require.NoError(t, err)

	return node.(*document.Scalar).Value
}

func TestDirectory_TwoCases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var log bytes.Buffer

	sink, err := output.NewDirectory(filepath.Join(dir, "out"), &log, codec.DefaultOptions(), nil)
	require.NoError(t, err)

	expand(t, sink)

	first := readDoc(t, filepath.Join(dir, "out", "1", "output", "x.yaml"))
	assert.Equal(t, int64(5), scalarAt(t, first, "a:b"))

	second := readDoc(t, filepath.Join(dir, "out", "2", "output", "y.yaml"))
	assert.Equal(t, int64(5), scalarAt(t, second, "a:b"))
	assert.Equal(t, int64(0), scalarAt(t, second, "a:c:0"))

	record := readDoc(t, filepath.Join(dir, "out", "2", "config", "y_config.yaml"))
	assert.Equal(t, []string{"case", "output_type", "a:c:0"}, record.(*document.Mapping).Keys())

	docPath, configPath, err := sink.Paths("1", "x")
	require.NoError(t, err)
	assert.Contains(t, log.String(), "Modified data for case 1 has been written to "+docPath+"\n")
	assert.Contains(t, log.String(), "Config for case 1 has been written to "+configPath+"\n")
}

func TestDirectory_ReusesExistingDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "1", "output"), 0o755))

	var log bytes.Buffer

	sink, err := output.NewDirectory(dir, &log, codec.DefaultOptions(), nil)
	require.NoError(t, err)

	expand(t, sink)
	expand(t, sink)

	assert.FileExists(t, filepath.Join(dir, "1", "output", "x.yaml"))
}

func TestNewDirectory_MakesRootAbsolute(t *testing.T) {
	t.Parallel()

	sink, err := output.NewDirectory("relative/out", &bytes.Buffer{}, codec.DefaultOptions(), nil)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(sink.Root()))
}

func TestConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	expand(t, output.NewConsole(&buf, codec.DefaultOptions(), nil))

	expected := output.ConsoleBanner + "\n" +
		"Case_1:\na:\n  b: 5\n  c: [10, 20]\n" +
		"Case_2:\na:\n  b: 5\n  c: [0, 20]\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "doc.yaml")

	require.NoError(t, output.WriteFile(path, []byte("a: 1\n")))
	require.NoError(t, output.WriteFile(path, []byte("b: 2\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", string(data))
}

func TestWriteFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := output.WriteFile(filepath.Join(blocker, "child.yaml"), []byte("a: 1\n"))
	require.ErrorIs(t, err, errs.ErrOutputWrite)

	var writeErr *errs.OutputWriteError

	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "mkdir", writeErr.Op)

	err = output.WriteFile(dir, []byte("a: 1\n"))
	require.ErrorIs(t, err, errs.ErrOutputWrite)
}

func TestFlatTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	testCases := []struct {
		name     string
		target   string
		input    string
		expected string
	}{
		{name: "directory takes the input name", target: dir, input: "/data/input.yaml", expected: filepath.Join(dir, "input.yaml")},
		{name: "file path is used as is", target: filepath.Join(dir, "result.yaml"), input: "input.yaml", expected: filepath.Join(dir, "result.yaml")},
		{name: "stdin to a file", target: filepath.Join(dir, "result.yaml"), input: "-", expected: filepath.Join(dir, "result.yaml")},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			target, err := output.FlatTarget(testCase.target, testCase.input)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, target)
		})
	}
}

func TestFlatTarget_StdinNeedsFile(t *testing.T) {
	t.Parallel()

	target, err := output.FlatTarget(t.TempDir(), "-")
	require.ErrorIs(t, err, output.ErrStdinToDirectory)
	require.ErrorIs(t, err, errs.ErrOutputWrite)
	assert.Empty(t, target)
}

func TestDirectory_RejectsEscapingNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		caseID     string
		outputType string
	}{
		{name: "parent case", caseID: "..", outputType: "x"},
		{name: "case with separator", caseID: "../x", outputType: "x"},
		{name: "nested case", caseID: "a/b", outputType: "x"},
		{name: "backslash case", caseID: `..\x`, outputType: "x"},
		{name: "current dir case", caseID: ".", outputType: "x"},
		{name: "empty type", caseID: "1", outputType: ""},
		{name: "type with separator", caseID: "1", outputType: "../../etc/x"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()

			sink, err := output.NewDirectory(filepath.Join(dir, "out"), &bytes.Buffer{}, codec.DefaultOptions(), nil)
			require.NoError(t, err)

			_, _, err = sink.Paths(testCase.caseID, testCase.outputType)
			require.ErrorIs(t, err, output.ErrUnsafeName)

			err = sink.Emit(cases.Result{
				CaseID:     testCase.caseID,
				OutputType: testCase.outputType,
				Document:   document.NewMapping(),
				Record:     document.NewMapping(),
			})
			require.ErrorIs(t, err, errs.ErrOutputWrite)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing is written for a rejected name")
		})
	}
}
