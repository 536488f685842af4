package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corey/occur/internal/domain/automaton"
	"github.com/corey/occur/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend implements Backend with the in-house automaton and an
// in-memory run list.
type mockBackend struct {
	runs []*ports.Run
	last ports.SearchRequest
}

func (m *mockBackend) Search(ctx context.Context, req ports.SearchRequest) (*ports.Run, error) {
	m.last = req
	a, err := automaton.Build(req.Patterns, automaton.Options{AllowEmpty: req.Options.AllowEmpty})
	if err != nil {
		return nil, err
	}
	occ, err := a.FindAll(req.Text)
	if err != nil {
		return nil, err
	}
	run := &ports.Run{
		ID:        uint64(len(m.runs) + 1),
		Source:    req.Source,
		TextBytes: len(req.Text),
		Engine:    "aho",
		Patterns:  req.Patterns,
		Offsets:   occ.Offsets,
	}
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *mockBackend) Runs(limit int) ([]*ports.Run, error) {
	out := make([]*ports.Run, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *mockBackend) Engines() []string { return []string{"aho", "naive"} }

func setupTestServer(t *testing.T) (*httptest.Server, *mockBackend) {
	t.Helper()
	backend := &mockBackend{}
	srv := NewServer(backend, nil, "")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, backend
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result HealthResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, []string{"aho", "naive"}, result.Engines)
}

func TestSearchEndpoint(t *testing.T) {
	ts, backend := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/search", SearchBody{
		Text:     "ushers",
		Patterns: []string{"he", "she", "his", "hers"},
		Alphabet: "letters",
	})
	require.Equal(t, 200, resp.StatusCode)

	var result SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []PatternResult{
		{Pattern: "he", Offsets: []int{2}},
		{Pattern: "she", Offsets: []int{1}},
		{Pattern: "hers", Offsets: []int{2}},
	}, result.Results)
	assert.Equal(t, "request", backend.last.Source)
	assert.Equal(t, "letters", backend.last.Options.Alphabet)
}

func TestSearchEndpoint_EmitEmpty(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/search", SearchBody{
		Text:      "abc",
		Patterns:  []string{"zz", "b"},
		EmitEmpty: true,
	})
	require.Equal(t, 200, resp.StatusCode)

	var result SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, []PatternResult{
		{Pattern: "zz", Offsets: []int{}},
		{Pattern: "b", Offsets: []int{1}},
	}, result.Results)
}

func TestSearchEndpoint_Errors(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/search", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/search", SearchBody{Text: "abc", Patterns: []string{""}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var e errorResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e.Error, "empty")
}

func TestUploadEndpoint(t *testing.T) {
	ts, backend := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("textfile", "book.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("she sells sea shells"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("patterns", " sea , she,, shells "))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var result SearchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, []PatternResult{
		{Pattern: "sea", Offsets: []int{10}},
		{Pattern: "she", Offsets: []int{0, 14}},
		{Pattern: "shells", Offsets: []int{14}},
	}, result.Results)
	assert.Equal(t, "upload:book.txt", backend.last.Source)
}

func uploadForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("textfile", "book.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("aaaa"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadEndpoint_PassesOptions(t *testing.T) {
	ts, backend := setupTestServer(t)

	body, ct := uploadForm(t, map[string]string{
		"patterns":           "aa",
		"max_pattern_length": "8",
		"allow_empty":        "true",
		"suppress_adjacent":  "on",
		"verify":             "1",
	})
	resp, err := http.Post(ts.URL+"/api/upload", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, 8, backend.last.Options.MaxPatternLength)
	assert.True(t, backend.last.Options.AllowEmpty)
	assert.True(t, backend.last.SuppressAdjacent)
	assert.True(t, backend.last.Verify)
}

func TestUploadEndpoint_InvalidOption(t *testing.T) {
	ts, backend := setupTestServer(t)

	body, ct := uploadForm(t, map[string]string{"patterns": "aa", "verify": "maybe"})
	resp, err := http.Post(ts.URL+"/api/upload", ct, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, backend.last.Patterns, "backend must not be called")
}

func TestSearchEndpoint_PatternLimits(t *testing.T) {
	ts, backend := setupTestServer(t)

	// No limit requested: the server default applies.
	resp := postJSON(t, ts.URL+"/api/search", SearchBody{Text: "abc", Patterns: []string{"b"}})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, MaxPatternLength, backend.last.Options.MaxPatternLength)

	// A larger limit is clamped; a smaller one is kept.
	postJSON(t, ts.URL+"/api/search", SearchBody{Text: "abc", Patterns: []string{"b"}, MaxPatternLength: 1 << 20})
	assert.Equal(t, MaxPatternLength, backend.last.Options.MaxPatternLength)
	postJSON(t, ts.URL+"/api/search", SearchBody{Text: "abc", Patterns: []string{"b"}, MaxPatternLength: 4})
	assert.Equal(t, 4, backend.last.Options.MaxPatternLength)

	// Too many pattern bytes in total is refused before any automaton is built.
	before := len(backend.runs)
	patterns := make([]string, MaxTotalPatternBytes/MaxPatternLength+1)
	for i := range patterns {
		patterns[i] = strings.Repeat("x", MaxPatternLength)
	}
	resp = postJSON(t, ts.URL+"/api/search", SearchBody{Text: "abc", Patterns: patterns})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	var e errorResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e.Error, "pattern set too large")
	assert.Equal(t, before, len(backend.runs))
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	ts, _ := setupTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("patterns", "a"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunsEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)
	for _, text := range []string{"a", "aa", "aaa"} {
		postJSON(t, ts.URL+"/api/search", SearchBody{Text: text, Patterns: []string{"a"}})
	}

	resp, err := http.Get(ts.URL + "/api/runs?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var result RunsResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, 2, result.Count)
	assert.Equal(t, uint64(3), result.Runs[0].ID)
	assert.Equal(t, 3, result.Runs[0].TextBytes)

	resp2, err := http.Get(ts.URL + "/api/runs?limit=abc")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestIndexHTML(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	ct := resp.Header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(ct, "text/html"), "content-type should be text/html, got %s", ct)
}

func TestSplitPatterns(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, SplitPatterns(" a ,b c,, d,"))
	assert.Empty(t, SplitPatterns(" , "))
}

func TestStartStop(t *testing.T) {
	portFile := t.TempDir() + "/http.port"
	srv := NewServer(&mockBackend{}, nil, portFile)
	require.NoError(t, srv.Start(0))
	assert.NotZero(t, srv.Port())
	assert.FileExists(t, portFile)

	resp, err := http.Get(srv.URL() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	srv.Stop()
	srv.Stop()
	assert.NoFileExists(t, portFile)
}

func TestDefaultPort(t *testing.T) {
	port := DefaultPort("/home/user/project")
	assert.GreaterOrEqual(t, port, 19000)
	assert.Less(t, port, 20000)
	assert.Equal(t, port, DefaultPort("/home/user/project"))
}
