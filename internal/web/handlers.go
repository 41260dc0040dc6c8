package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/core"
	"github.com/JonMunkholm/featureprep/internal/logging"
	"github.com/JonMunkholm/featureprep/internal/table"
	"github.com/JonMunkholm/featureprep/internal/web/templates"
	"github.com/google/uuid"
)

// maxPreviewRows caps the rows parameter.
const maxPreviewRows = 500

var errBadRequest = errors.New("bad request")

// ColumnInfo describes one column of a FeaturesResponse.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FeaturesResponse is the JSON form of a feature table. Missing cells are
// null and infinities are the strings "Infinity" and "-Infinity".
type FeaturesResponse struct {
	File    string       `json:"file"`
	Target  string       `json:"target,omitempty"`
	RunID   string       `json:"run_id"`
	Columns []ColumnInfo `json:"columns"`
	Rows    [][]any      `json:"rows"`
}

// PreviewResponse wraps a preview with the request that produced it.
type PreviewResponse struct {
	File   string `json:"file"`
	Target string `json:"target,omitempty"`
	RunID  string `json:"run_id"`
	core.PreviewSummary
}

// buildRequest is the parsed query of a build endpoint.
type buildRequest struct {
	file   string
	target string
	rows   int
	runID  string
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseBuildRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	t, err := s.build(r, req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, FeaturesResponse{
		File:    req.file,
		Target:  req.target,
		RunID:   req.runID,
		Columns: columnInfo(t),
		Rows:    jsonRows(t),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseBuildRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	t, err := s.build(r, req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, PreviewResponse{
		File:           req.file,
		Target:         req.target,
		RunID:          req.runID,
		PreviewSummary: core.Preview(t, req.rows),
	})
}

func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseBuildRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	t, err := s.build(r, req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	page := templates.PreviewPage(templates.PreviewData{
		File:    req.file,
		Target:  req.target,
		RunID:   req.runID,
		Summary: core.Preview(t, req.rows),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render preview", "error", err)
	}
}

// build runs the pipeline for one request under its own run ID.
func (s *Server) build(r *http.Request, req buildRequest) (*table.Table, error) {
	ctx := logging.WithRunID(r.Context(), req.runID)
	return s.pipeline.BuildFeatureTable(ctx, req.file, req.target)
}

func (s *Server) parseBuildRequest(r *http.Request) (buildRequest, error) {
	q := r.URL.Query()

	req := buildRequest{
		file:   s.defaults.RawFilename,
		target: s.defaults.TargetColumn,
		rows:   s.defaults.PreviewRows,
		runID:  uuid.NewString(),
	}

	if q.Has("file") {
		req.file = q.Get("file")
	}
	if req.file == "" {
		req.file = s.defaults.RawFilename
	}
	if req.file == "" {
		req.file = core.DefaultRawFilename
	}
	if filepath.Base(req.file) != req.file || strings.Contains(req.file, "..") {
		return req, fmt.Errorf("%w: invalid filename %q", errBadRequest, req.file)
	}

	if q.Has("target") {
		req.target = q.Get("target")
	}

	if v := q.Get("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, fmt.Errorf("%w: rows must be a positive integer", errBadRequest)
		}
		req.rows = min(n, maxPreviewRows)
	}

	return req, nil
}

func columnInfo(t *table.Table) []ColumnInfo {
	cols := t.Columns()
	out := make([]ColumnInfo, len(cols))
	for i, c := range cols {
		out[i] = ColumnInfo{Name: c.Name(), Type: c.Type().String()}
	}
	return out
}

func jsonRows(t *table.Table) [][]any {
	rows := make([][]any, t.NumRows())
	for i := range rows {
		vals := t.Row(i)
		row := make([]any, len(vals))
		for j, v := range vals {
			row[j] = jsonCell(v)
		}
		rows[i] = row
	}
	return rows
}

// jsonCell maps a value onto something encoding/json accepts.
func jsonCell(v table.Value) any {
	if v.IsMissing() {
		return nil
	}
	if n, ok := v.Int(); ok {
		return n
	}
	f, ok := v.Float()
	if !ok {
		return v.String()
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}
