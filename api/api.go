// Package api serves the override engine over HTTP.
//
// Every endpoint takes a YAML body and answers in YAML or plain text:
//
//	POST /v1/apply   {document, overrides: {path: value}}  -> mutated document
//	POST /v1/expand  {document, cases: [...], fresh}       -> {results, completed, failed, error}
//	POST /v1/paths?mode=leaves|tree  <document>            -> one path per line
//	GET  /healthz
//
// The document may be given inline or as a string holding YAML text; the
// string form keeps its comments in the output.
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xalexb/yamlcase/codec"
	"github.com/0xalexb/yamlcase/docpath"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/listener/middleware"

	"github.com/goccy/go-yaml"
)

// ContentTypeYAML is the media type of YAML responses.
const ContentTypeYAML = "application/yaml"

// Request body keys.
const (
	documentKey  = "document"
	overridesKey = "overrides"
	freshKey     = "fresh"
)

var (
	// ErrMissingField is returned when a request body lacks a required key.
	ErrMissingField = errors.New("missing field")

	// ErrUnknownMode is returned for a paths mode other than leaves or tree.
	ErrUnknownMode = errors.New("unknown mode")
)

// Config controls how requests are handled.
type Config struct {
	Codec codec.Options
	// Policy parses override paths. Nil means docpath.NumericIndex.
	Policy docpath.Policy
	// Fresh is the expand mode used when a request does not say.
	Fresh          bool
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// RateLimit is requests per second across all clients. Zero is unlimited.
	RateLimit float64
	RateBurst int
}

// Handler serves the API.
type Handler struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler returns the API wrapped in the request ID, logging, recovery,
// rate limit, body size and timeout middleware.
func NewHandler(cfg Config, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Policy == nil {
		cfg.Policy = docpath.NumericIndex
	}

	h := &Handler{cfg: cfg, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /healthz", h.health)
	h.mux.HandleFunc("POST /v1/apply", h.apply)
	h.mux.HandleFunc("POST /v1/expand", h.expand)
	h.mux.HandleFunc("POST /v1/paths", h.paths)

	return middleware.Chain(h.mux,
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.RateLimit(cfg.RateLimit, cfg.RateBurst),
		middleware.MaxRequestSize(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// readBody loads the request body as a YAML document.
func (h *Handler) readBody(r *http.Request) (*codec.File, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return codec.Load(data, "request body", h.cfg.Codec)
}

// requestDocument extracts the document key. A string value is parsed as YAML text.
func (h *Handler) requestDocument(body *document.Mapping) (*codec.File, error) {
	node, ok := body.Get(documentKey)
	if !ok || document.IsNull(node) {
		return nil, &errs.DocumentLoadError{Source: "request body", Cause: fmt.Errorf("%w: %s", ErrMissingField, documentKey)}
	}

	if scalar, isScalar := node.(*document.Scalar); isScalar {
		if text, isText := scalar.Value.(string); isText {
			return codec.Load([]byte(text), documentKey, h.cfg.Codec)
		}
	}

	return &codec.File{Source: documentKey, Root: node}, nil
}

func bodyMapping(file *codec.File) (*document.Mapping, error) {
	m, ok := file.Root.(*document.Mapping)
	if !ok {
		return nil, &errs.DocumentLoadError{
			Source:  file.Source,
			Message: "want a mapping, got " + file.Root.Kind().String(),
		}
	}

	return m, nil
}

func (h *Handler) writeYAML(w http.ResponseWriter, status int, root document.Node, comments yaml.CommentMap) {
	data, err := codec.Dump(root, comments, h.cfg.Codec)
	if err != nil {
		h.fail(w, err)

		return
	}

	w.Header().Set("Content-Type", ContentTypeYAML)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case middleware.IsTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errs.ErrDocumentLoad), errors.Is(err, ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrPathResolution):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Any("error", err))
	}

	http.Error(w, err.Error(), status)
}
