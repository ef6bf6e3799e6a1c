package override_test

import (
	"testing"

	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/override"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = `# service template
service:
  name: api # public name
  replicas: 2
  ports: [80, 443]
  env:
    LOG_LEVEL: info
`

func load(t *testing.T, data string) *codec.File {
	t.Helper()

	file, err := codec.Load([]byte(data), "test", codec.DefaultOptions())
	require.NoError(t, err)

	return file
}

func set(raw string, value document.Node) override.Override {
	return override.Override{Path: docpath.MustParse(raw), Value: value}
}

func get(t *testing.T, root document.Node, raw string) document.Node {
	t.Helper()

	node, err := docpath.Get(root, docpath.MustParse(raw))
	require.NoError(t, err)

	return node
}

func TestApply_ExampleSequenceSlot(t *testing.T) {
	t.Parallel()

	file := load(t, "a:\n  b: 1\n  c: [10, 20]\n")

	result, err := override.Apply(file.Root, []override.Override{set("a:c:1", document.NewScalar(99))})
	require.NoError(t, err)

	assert.Same(t, file.Root, result, "the document is mutated in place")
	assert.True(t, document.Equal(load(t, "a: {b: 1, c: [10, 99]}").Root, result))
}

func TestApply_LastWriteWins(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{
		set("service:replicas", document.NewScalar(3)),
		set("service:replicas", document.NewScalar(5)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), get(t, file.Root, "service:replicas").(*document.Scalar).Value)
}

func TestApply_ReplacesWithoutMerging(t *testing.T) {
	t.Parallel()

	file := load(t, base)
	replacement := document.NewMapping(document.Entry{Key: "DEBUG", Value: document.NewScalar(true)})

	_, err := override.Apply(file.Root, []override.Override{set("service:env", replacement)})
	require.NoError(t, err)

	env := get(t, file.Root, "service:env").(*document.Mapping)
	assert.Equal(t, []string{"DEBUG"}, env.Keys())
}

func TestApply_AllowsTypeReplacement(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{set("service:ports", document.NewScalar("none"))})
	require.NoError(t, err)

	assert.Equal(t, "none", get(t, file.Root, "service:ports").(*document.Scalar).Value)

	out, err := file.Dump(codec.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, string(out), "ports: none")
	assert.Contains(t, string(out), "# public name")
}

func TestApply_CommentedMappingReplacedByScalar(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{set("service", document.NewScalar("off"))})
	require.NoError(t, err)

	out, err := file.Dump(codec.DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "public name")
	assert.Contains(t, string(out), "service:")
}

func TestApply_NoopValuesLeaveDumpUnchanged(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value document.Node
	}{
		{name: "null", value: document.Null()},
		{name: "nil node", value: nil},
		{name: "empty mapping", value: document.NewMapping()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			file := load(t, base)

			before, err := file.Dump(codec.DefaultOptions())
			require.NoError(t, err)

			_, err = override.Apply(file.Root, []override.Override{
				set("service:name", testCase.value),
				set("service:new_key", testCase.value),
			})
			require.NoError(t, err)

			after, err := file.Dump(codec.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after))
		})
	}
}

func TestApply_EmptySequenceIsNotNoop(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{set("service:ports", document.NewSequence())})
	require.NoError(t, err)

	assert.Equal(t, 0, get(t, file.Root, "service:ports").(*document.Sequence).Len())
}

func TestApply_NoopStillResolvesPath(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{set("missing:key", document.Null())})
	require.ErrorIs(t, err, errs.ErrKeyNotFound)
}

func TestApply_PartialApplyOnFailure(t *testing.T) {
	t.Parallel()

	file := load(t, base)

	_, err := override.Apply(file.Root, []override.Override{
		set("service:replicas", document.NewScalar(4)),
		set("service:name", document.Null()),
		set("service:nope:deeper", document.NewScalar(1)),
		set("service:name", document.NewScalar("never")),
	})
	require.ErrorIs(t, err, errs.ErrPathResolution)

	var applyErr *override.ApplyError

	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, 1, applyErr.Applied)
	assert.Equal(t, 2, applyErr.Index)
	assert.Equal(t, "service:nope:deeper", applyErr.Path)

	assert.Equal(t, int64(4), get(t, file.Root, "service:replicas").(*document.Scalar).Value)
	assert.Equal(t, "api", get(t, file.Root, "service:name").(*document.Scalar).Value)
}

func TestFromMapping(t *testing.T) {
	t.Parallel()

	changes := load(t, "\"service:replicas\": 9\n\"service:ports:0\": 8080\n").Root.(*document.Mapping)

	overrides, err := override.FromMapping(changes, docpath.NumericIndex)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, "service:replicas", overrides[0].Path.String())
	assert.True(t, overrides[1].Path[2].IsIndex())

	file := load(t, base)

	_, err = override.Apply(file.Root, overrides)
	require.NoError(t, err)

	assert.Equal(t, int64(9), get(t, file.Root, "service:replicas").(*document.Scalar).Value)
	assert.Equal(t, int64(8080), get(t, file.Root, "service:ports:0").(*document.Scalar).Value)
}

func TestFromPairs(t *testing.T) {
	t.Parallel()

	overrides, err := override.FromPairs(
		[]string{"service:replicas", "service:env", "service:name"},
		[]string{"7", "{LOG_LEVEL: debug}", "'7'"},
		docpath.NumericIndex,
	)
	require.NoError(t, err)
	require.Len(t, overrides, 3)

	assert.Equal(t, int64(7), overrides[0].Value.(*document.Scalar).Value)
	assert.Equal(t, document.KindMapping, overrides[1].Value.Kind())
	assert.Equal(t, "7", overrides[2].Value.(*document.Scalar).Value)
}

func TestFromPairs_Mismatch(t *testing.T) {
	t.Parallel()

	_, err := override.FromPairs([]string{"a", "b"}, []string{"1"}, nil)
	require.ErrorIs(t, err, override.ErrPairMismatch)
}

func TestFromPairs_BadValue(t *testing.T) {
	t.Parallel()

	_, err := override.FromPairs([]string{"a"}, []string{"[1, 2"}, nil)
	require.ErrorIs(t, err, errs.ErrDocumentLoad)
}
