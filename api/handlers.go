package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/0xalexb/yamlcase/cases"
	"github.com/0xalexb/yamlcase/document"
	"github.com/0xalexb/yamlcase/errs"
	"github.com/0xalexb/yamlcase/introspect"
	"github.com/0xalexb/yamlcase/override"
)

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.fail(w, err)

		return
	}

	fields, err := bodyMapping(body)
	if err != nil {
		h.fail(w, err)

		return
	}

	doc, err := h.requestDocument(fields)
	if err != nil {
		h.fail(w, err)

		return
	}

	var overrides []override.Override

	if raw, ok := fields.Get(overridesKey); ok && !document.IsNull(raw) {
		changes, isMapping := raw.(*document.Mapping)
		if !isMapping {
			h.fail(w, &errs.DocumentLoadError{Source: overridesKey, Message: "want a mapping of paths to values"})

			return
		}

		overrides, err = override.FromMapping(changes, h.cfg.Policy)
		if err != nil {
			h.fail(w, err)

			return
		}
	}

	_, err = override.Apply(doc.Root, overrides)
	if err != nil {
		h.fail(w, err)

		return
	}

	h.writeYAML(w, http.StatusOK, doc.Root, doc.Comments)
}

func (h *Handler) expand(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(r)
	if err != nil {
		h.fail(w, err)

		return
	}

	fields, err := bodyMapping(body)
	if err != nil {
		h.fail(w, err)

		return
	}

	doc, err := h.requestDocument(fields)
	if err != nil {
		h.fail(w, err)

		return
	}

	batch, err := cases.ParseBatch(fields, "request body", h.cfg.Policy)
	if err != nil {
		h.fail(w, err)

		return
	}

	expander := cases.Expander{Fresh: h.cfg.Fresh}
	if raw, ok := fields.Get(freshKey); ok && !document.IsNull(raw) {
		fresh, isBool := scalarBool(raw)
		if !isBool {
			h.fail(w, &errs.DocumentLoadError{Source: freshKey, Message: "want true or false"})

			return
		}

		expander.Fresh = fresh
	}

	results := document.NewSequence()

	report, expandErr := expander.Expand(r.Context(), doc.Root, batch, func(res cases.Result) error {
		results.Items = append(results.Items, document.NewMapping(
			document.Entry{Key: "case", Value: document.NewScalar(res.CaseID)},
			document.Entry{Key: "output_type", Value: document.NewScalar(res.OutputType)},
			document.Entry{Key: "document", Value: res.Document},
		))

		return nil
	})

	completed := document.NewSequence()
	for _, id := range report.Completed {
		completed.Items = append(completed.Items, document.NewScalar(id))
	}

	response := document.NewMapping(
		document.Entry{Key: "results", Value: results},
		document.Entry{Key: "completed", Value: completed},
	)

	status := http.StatusOK

	if expandErr != nil {
		status = statusOf(expandErr)
		response.Set("failed", document.NewScalar(report.Failed))
		response.Set("error", document.NewScalar(expandErr.Error()))
		h.logger.Warn("expansion stopped",
			"failed", report.Failed, "completed", len(report.Completed), "error", expandErr)
	}

	h.writeYAML(w, status, response, nil)
}

func (h *Handler) paths(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "leaves"
	}

	if mode != "leaves" && mode != "tree" {
		h.fail(w, fmt.Errorf("%w: %q (want leaves or tree)", ErrUnknownMode, mode))

		return
	}

	body, err := h.readBody(r)
	if err != nil {
		h.fail(w, err)

		return
	}

	var out strings.Builder

	if mode == "tree" {
		for entry := range introspect.Tree(body.Root) {
			out.WriteString(entry.String())
			out.WriteByte('\n')
		}
	} else {
		for leaf := range introspect.Leaves(body.Root) {
			out.WriteString(leaf)
			out.WriteByte('\n')
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out.String()))
}

func scalarBool(n document.Node) (bool, bool) {
	s, ok := n.(*document.Scalar)
	if !ok {
		return false, false
	}

	b, ok := s.Value.(bool)

	return b, ok
}
