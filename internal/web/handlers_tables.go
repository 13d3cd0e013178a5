package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/S-e-t/SimpleExtensions/dict"
	"github.com/S-e-t/SimpleExtensions/internal/importer"
	"github.com/S-e-t/SimpleExtensions/internal/logging"
	"github.com/S-e-t/SimpleExtensions/parse"
	"github.com/S-e-t/SimpleExtensions/table"
	"github.com/go-chi/chi/v5"
)

// tableNamePattern accepts "table" or "schema.table" with plain identifiers.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CopyResponse is the body of POST /api/tables/{name}/copy.
type CopyResponse struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database bool                   `json:"database"`
	Imports  importer.LimiterStatus `json:"imports"`
}

type tableWriter struct {
	contentType string
	extension   string
	write       func(t *table.Table, buf *bytes.Buffer, r *http.Request) error
}

var tableWriters = map[string]tableWriter{
	"csv": {
		contentType: "text/csv; charset=utf-8",
		extension:   "csv",
		write: func(t *table.Table, buf *bytes.Buffer, _ *http.Request) error {
			return t.WriteCSV(buf)
		},
	},
	"xlsx": {
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		extension:   "xlsx",
		write: func(t *table.Table, buf *bytes.Buffer, r *http.Request) error {
			return t.WriteXLSX(buf, r.URL.Query().Get("sheet"))
		},
	},
}

// handleHealth reports liveness and whether the database answers a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Imports: s.imports.Status()}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("database ping failed", "error", err)
			resp.Status = "degraded"
		} else {
			resp.Database = true
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleConvert loads the CSV body with the declared columns and returns the
// typed table as CSV or XLSX.
//
// Query parameters: columns (required), format (csv or xlsx, default csv),
// sheet, encoding, delimiter.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(orDefault(r.URL.Query().Get("format"), "csv"))
	out, ok := tableWriters[format]
	if !ok {
		respondError(w, r, fmt.Errorf("%w: unknown format %q", errBadRequest, format))
		return
	}

	if err := s.imports.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.imports.Release()

	tbl, err := s.loadBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := out.write(tbl, &buf, r); err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("converted table",
		"format", format,
		"rows", tbl.Len(),
		"columns", len(tbl.Columns()),
	)

	w.Header().Set("Content-Type", out.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="table.%s"`, out.extension))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleCopy loads the CSV body with the declared columns and COPYs the rows
// into the named Postgres table.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, r, errNoDatabase)
		return
	}

	name := chi.URLParam(r, "name")
	if !tableNamePattern.MatchString(name) {
		respondError(w, r, fmt.Errorf("%w: invalid table name %q", errBadRequest, name))
		return
	}

	if err := s.imports.Acquire(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.imports.Release()

	tbl, err := s.loadBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Database.CopyTimeout)
	defer cancel()

	n, err := tbl.CopyTo(ctx, s.db, name)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %w", errCopyFailed, err))
		return
	}

	logging.WithFields(r.Context(), "table", name).Info("copied table", "rows", n)
	writeJSON(w, r, http.StatusOK, CopyResponse{Table: name, Rows: n})
}

// loadBody reads the request body as CSV according to the query parameters.
func (s *Server) loadBody(w http.ResponseWriter, r *http.Request) (*table.Table, error) {
	q := r.URL.Query()

	specs, err := importer.ParseSpecs(q.Get("columns"))
	if err != nil {
		return nil, err
	}

	opts, err := s.importOptions(q.Get("encoding"), q.Get("delimiter"))
	if err != nil {
		return nil, err
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxBodyBytes)
	defer body.Close()

	return importer.Load(r.Context(), body, specs, opts)
}

// importOptions resolves per-request overrides of the configured defaults.
func (s *Server) importOptions(encodingName, delimiter string) (importer.Options, error) {
	opts := importer.Options{
		MaxRows: s.cfg.Import.MaxRows,
		Comma:   s.cfg.Import.DelimiterRune(),
	}

	enc, err := parse.LookupEncoding(orDefault(encodingName, s.cfg.Import.Encoding))
	if err != nil {
		return opts, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	opts.Encoding = enc

	if delimiter != "" {
		comma := dict.Get(namedDelimiters, strings.ToLower(delimiter))
		if comma == 0 && utf8.RuneCountInString(delimiter) == 1 {
			comma, _ = utf8.DecodeRuneInString(delimiter)
		}
		if comma == 0 || comma == '"' || comma == '\r' || comma == '\n' || comma == utf8.RuneError {
			return opts, fmt.Errorf("%w: invalid delimiter %q", errBadRequest, delimiter)
		}
		opts.Comma = comma
	}

	return opts, nil
}

// namedDelimiters holds aliases for separators that are awkward in a URL.
var namedDelimiters = map[string]rune{
	"tab":       '\t',
	`\t`:        '\t',
	"comma":     ',',
	"semicolon": ';',
	"pipe":      '|',
}
