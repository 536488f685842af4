package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/corey/occur/internal/domain/automaton"
	"github.com/corey/occur/internal/logger"
	"github.com/corey/occur/internal/ports"
)

// MaxUploadBytes bounds multipart uploads and JSON request bodies.
const MaxUploadBytes = 16 << 20

// Limits on the pattern set of a request. Automaton size grows with total
// pattern bytes, so these bound server memory independently of the body limit.
const (
	MaxPatternLength     = 1024     // per pattern; also the default when a request sets none
	MaxTotalPatternBytes = 64 << 10 // across all patterns of one request
)

// ErrPatternsTooLarge is returned when a request's patterns exceed MaxTotalPatternBytes.
var ErrPatternsTooLarge = errors.New("pattern set too large")

// Backend is what the server needs from the application.
type Backend interface {
	Search(ctx context.Context, req ports.SearchRequest) (*ports.Run, error)
	Runs(limit int) ([]*ports.Run, error)
	Engines() []string
}

// Server serves the search page and JSON API over HTTP.
type Server struct {
	backend  Backend
	log      *logger.Logger
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once

	portFilePath string // .occur/run/http.port
}

// NewServer creates an HTTP server over backend.
// The portFilePath is where the bound port is written for discovery.
func NewServer(backend Backend, log *logger.Logger, portFilePath string) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		backend:      backend,
		log:          log,
		portFilePath: portFilePath,
	}
}

// DefaultPort computes a project-specific port: 19000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := fnv.New32a()
	h.Write([]byte(abs))
	return 19000 + int(h.Sum32()%1000)
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	return mux
}

// Start begins listening on the preferred port. Writes the port to the port file.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.NewSlogHandler(s.log), slog.LevelError),
	}

	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(strconv.Itoa(s.port)), 0644); err != nil {
			s.log.Warn("write port file: %v", err)
		}
	}

	s.log.Info("listening on %s", s.URL())
	go s.httpSrv.Serve(ln)
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(ctx)
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the page URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// HealthResult is the /api/health payload.
type HealthResult struct {
	Status  string   `json:"status"`
	Engines []string `json:"engines"`
	Uptime  string   `json:"uptime"`
}

// SearchBody is the /api/search request payload.
type SearchBody struct {
	Text             string   `json:"text"`
	Patterns         []string `json:"patterns"`
	Engine           string   `json:"engine"`
	Alphabet         string   `json:"alphabet"`
	Policy           string   `json:"policy"`
	MaxPatternLength int      `json:"max_pattern_length"`
	AllowEmpty       bool     `json:"allow_empty"`
	EmitEmpty        bool     `json:"emit_empty"`
	SuppressAdjacent bool     `json:"suppress_adjacent"`
	Verify           bool     `json:"verify"`
}

// PatternResult is one pattern's occurrences.
type PatternResult struct {
	Pattern string `json:"pattern"`
	Offsets []int  `json:"offsets"`
}

// SearchResult is the /api/search and /api/upload response payload.
type SearchResult struct {
	RunID     uint64          `json:"run_id,omitempty"`
	Engine    string          `json:"engine"`
	TextBytes int             `json:"text_bytes"`
	Total     int             `json:"total"`
	ElapsedMs float64         `json:"elapsed_ms"`
	Results   []PatternResult `json:"results"`
}

// RunsResult is the /api/runs payload.
type RunsResult struct {
	Count int          `json:"count"`
	Runs  []*ports.Run `json:"runs"`
}

type errorResult struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := HealthResult{
		Status:  "ok",
		Engines: s.backend.Engines(),
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body SearchBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	req := ports.SearchRequest{
		Source:   "request",
		Text:     []byte(body.Text),
		Patterns: body.Patterns,
		Engine:   body.Engine,
		Options: ports.MatchOptions{
			Alphabet:         body.Alphabet,
			Policy:           body.Policy,
			MaxPatternLength: body.MaxPatternLength,
			AllowEmpty:       body.AllowEmpty,
		},
		SuppressAdjacent: body.SuppressAdjacent,
		Verify:           body.Verify,
	}
	s.search(w, r, req, body.EmitEmpty)
}

// handleUpload takes a multipart form: "textfile" (the text), "patterns"
// (comma-separated) and optional "engine", "alphabet", "policy",
// "max_pattern_length", and the booleans "allow_empty", "emit_empty",
// "suppress_adjacent", "verify".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("textfile")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("textfile: %w", err))
		return
	}
	defer file.Close()

	text, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read textfile: %w", err))
		return
	}

	form := formReader{r: r}
	maxLen := form.int("max_pattern_length")
	allowEmpty := form.bool("allow_empty")
	emitEmpty := form.bool("emit_empty")
	suppress := form.bool("suppress_adjacent")
	verify := form.bool("verify")
	if form.err != nil {
		writeError(w, http.StatusBadRequest, form.err)
		return
	}

	req := ports.SearchRequest{
		Source:   "upload:" + header.Filename,
		Text:     text,
		Patterns: SplitPatterns(r.FormValue("patterns")),
		Engine:   r.FormValue("engine"),
		Options: ports.MatchOptions{
			Alphabet:         r.FormValue("alphabet"),
			Policy:           r.FormValue("policy"),
			MaxPatternLength: maxLen,
			AllowEmpty:       allowEmpty,
		},
		SuppressAdjacent: suppress,
		Verify:           verify,
	}
	s.search(w, r, req, emitEmpty)
}

// formReader parses optional form values, keeping the first error.
type formReader struct {
	r   *http.Request
	err error
}

func (f *formReader) int(key string) int {
	v := f.r.FormValue(key)
	if v == "" || f.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.err = fmt.Errorf("%s: invalid number %q", key, v)
	}
	return n
}

func (f *formReader) bool(key string) bool {
	v := f.r.FormValue(key)
	if v == "" || f.err != nil {
		return false
	}
	if v == "on" { // unvalued HTML checkbox
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		f.err = fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b
}

// limitPatterns applies the per-pattern and total pattern size limits.
func limitPatterns(req *ports.SearchRequest) error {
	if req.Options.MaxPatternLength <= 0 || req.Options.MaxPatternLength > MaxPatternLength {
		req.Options.MaxPatternLength = MaxPatternLength
	}
	total := 0
	for _, p := range req.Patterns {
		total += len(p)
	}
	if total > MaxTotalPatternBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrPatternsTooLarge, total, MaxTotalPatternBytes)
	}
	return nil
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req ports.SearchRequest, emitEmpty bool) {
	if err := limitPatterns(&req); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	run, err := s.backend.Search(r.Context(), req)
	if err != nil {
		s.log.Debug("search from %s: %v", req.Source, err)
		writeError(w, statusFor(err), err)
		return
	}

	result := SearchResult{
		RunID:     run.ID,
		Engine:    run.Engine,
		TextBytes: run.TextBytes,
		Total:     run.Total(),
		ElapsedMs: float64(run.ElapsedNs) / 1e6,
		Results:   []PatternResult{},
	}
	occ := &automaton.Occurrences{Patterns: run.Patterns, Offsets: run.Offsets}
	occ.Each(emitEmpty, func(_ int, p string, offs []int) {
		if offs == nil {
			offs = []int{}
		}
		result.Results = append(result.Results, PatternResult{Pattern: p, Offsets: offs})
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	runs, err := s.backend.Runs(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*ports.Run{}
	}
	writeJSON(w, http.StatusOK, RunsResult{Count: len(runs), Runs: runs})
}

// SplitPatterns splits a comma-separated list, trimming blanks around each
// entry and dropping entries that are empty after trimming.
func SplitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// statusFor maps pattern and symbol errors to 422 and other request errors to 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, automaton.ErrEmptyPattern),
		errors.Is(err, automaton.ErrPatternTooLong),
		errors.Is(err, automaton.ErrInvalidSymbol),
		errors.Is(err, automaton.ErrEmptyAlphabet):
		return http.StatusUnprocessableEntity
	}
	var pe *automaton.PatternError
	if errors.As(err, &pe) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResult{Error: err.Error()})
}
