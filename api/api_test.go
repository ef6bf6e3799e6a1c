package api_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xalexb/yamlcase/api"
	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/listener/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, cfg api.Config) *httptest.Server {
	t.Helper()

	cfg.Codec = codec.DefaultOptions()

	srv := httptest.NewServer(api.NewHandler(cfg, slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)

	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(data)
}

func parse(t *testing.T, data string) document.Node {
	t.Helper()

	file, err := codec.Load([]byte(data), "response", codec.DefaultOptions())
	require.NoError(t, err)

	return file.Root
}

func scalarAt(t *testing.T, root document.Node, raw string) any {
	t.Helper()

	node, err := docpath.Get(root, docpath.MustParse(raw))
	require.NoError(t, err, raw)

	return node.(*document.Scalar).Value
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestApply(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, body := post(t, srv, "/v1/apply", `
document:
  a: {b: 1, c: [10, 20]}
overrides:
  "a:c:1": 99
`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, api.ContentTypeYAML, resp.Header.Get("Content-Type"))

	doc := parse(t, body)
	assert.Equal(t, int64(99), scalarAt(t, doc, "a:c:1"))
	assert.Equal(t, int64(1), scalarAt(t, doc, "a:b"))
}

func TestApply_TextDocumentKeepsComments(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, body := post(t, srv, "/v1/apply", `
document: |
  # replicas per zone
  replicas: 2
overrides:
  replicas: 3
`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "# replicas per zone")
	assert.Contains(t, body, "replicas: 3")
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid yaml", body: "document: [1, 2\n", status: http.StatusBadRequest},
		{name: "missing document", body: "overrides: {a: 1}\n", status: http.StatusBadRequest},
		{name: "body is a sequence", body: "- 1\n", status: http.StatusBadRequest},
		{name: "unresolvable path", body: "document: {a: 1}\noverrides: {\"a:b:c\": 2}\n", status: http.StatusUnprocessableEntity},
		{name: "index past end", body: "document: {a: [1]}\noverrides: {\"a:3\": 2}\n", status: http.StatusUnprocessableEntity},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, api.Config{})

			resp, body := post(t, srv, "/v1/apply", testCase.body)
			assert.Equal(t, testCase.status, resp.StatusCode, body)
		})
	}
}

func TestApply_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{MaxBodyBytes: 16})

	resp, _ := post(t, srv, "/v1/apply", "document: {a: "+strings.Repeat("x", 64)+"}\n")
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

const expandBody = `
document:
  a: {b: 1, c: [10, 20]}
cases:
  - case: 1
    output_type: x
    "a:b": 5
  - case: 2
    output_type: y
    "a:c:0": 0
`

func TestExpand_StateCarry(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, body := post(t, srv, "/v1/expand", expandBody)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	out := parse(t, body)
	assert.Equal(t, "1", scalarAt(t, out, "completed:0"))
	assert.Equal(t, "x", scalarAt(t, out, "results:0:output_type"))
	assert.Equal(t, int64(5), scalarAt(t, out, "results:1:document:a:b"))
	assert.Equal(t, int64(0), scalarAt(t, out, "results:1:document:a:c:0"))
}

func TestExpand_FreshFromRequest(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, body := post(t, srv, "/v1/expand", expandBody+"fresh: true\n")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	assert.Equal(t, int64(1), scalarAt(t, parse(t, body), "results:1:document:a:b"))
}

func TestExpand_FreshMustBeBoolean(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	for _, value := range []string{`"yes"`, "1", "[true]"} {
		resp, body := post(t, srv, "/v1/expand", expandBody+"fresh: "+value+"\n")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, value)
		assert.Contains(t, body, "fresh", value)
	}
}

func TestExpand_PartialFailure(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, body := post(t, srv, "/v1/expand", `
document: {a: {b: 1}}
cases:
  - case: good
    "a:b": 2
  - case: bad
    "a:nope:x": 3
`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)

	out := parse(t, body)
	assert.Equal(t, "good", scalarAt(t, out, "completed:0"))
	assert.Equal(t, "bad", scalarAt(t, out, "failed"))
	assert.Contains(t, scalarAt(t, out, "error"), "key not found")
	assert.Equal(t, int64(2), scalarAt(t, out, "results:0:document:a:b"))
}

func TestExpand_MissingCases(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	resp, _ := post(t, srv, "/v1/expand", "document: {a: 1}\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})
	doc := "a: {b: 1, c: [10, 20]}\nempty: []\n"

	resp, body := post(t, srv, "/v1/paths", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a:b\na:c:0\na:c:1\n", body)

	resp, body = post(t, srv, "/v1/paths?mode=tree", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a (mapping, 2 keys)\na:b = 1\na:c (sequence, 2 items)\na:c:0 = 10\na:c:1 = 20\nempty (sequence, 0 items)\n", body)

	resp, _ = post(t, srv, "/v1/paths?mode=flat", doc)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{RateLimit: 0.5, RateBurst: 1})

	resp, body := post(t, srv, "/v1/paths", "a: 1\n")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, _ = post(t, srv, "/v1/paths", "a: 1\n")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newServer(t, api.Config{})

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/v1/apply", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
