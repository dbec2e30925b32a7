package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/minilang/internal/history"
	"github.com/leapstack-labs/minilang/internal/testutil"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	return resp, got
}

func TestRun(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name          string
		body          string
		wantStatus    string
		wantCorrected string
		wantDetails   int
		wantTree      bool
	}{
		{
			name:          "valid program",
			body:          `{"code": "int x = 5;"}`,
			wantStatus:    "success",
			wantCorrected: "int x = 5;",
			wantTree:      true,
		},
		{
			name:          "auto correct by default",
			body:          `{"code": "pritn(\"hi\")"}`,
			wantStatus:    "success",
			wantCorrected: `print("hi");`,
			wantTree:      true,
		},
		{
			name:          "auto correct disabled",
			body:          `{"code": "pritn(\"hi\")", "auto_correct": false}`,
			wantStatus:    "error",
			wantCorrected: `print("hi")`,
			wantDetails:   1,
			wantTree:      true,
		},
		{
			name:          "unbalanced input",
			body:          `{"code": "pritn(\"hi"}`,
			wantStatus:    "error",
			wantCorrected: `print("hi");`,
			wantDetails:   2,
			wantTree:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, got := post(t, ts.URL+"/run", tt.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantStatus, got["status"])
			assert.Equal(t, tt.wantCorrected, got["corrected_text"])
			assert.Equal(t, got["corrected_text"], got["suggested_correction"])
			assert.Equal(t, got["original_input"], got["input_code"])
			assert.Len(t, got["details"], tt.wantDetails)
			assert.NotEmpty(t, got["request_id"])
			assert.Equal(t, resp.Header.Get("X-Request-Id"), got["request_id"])
			if tt.wantTree {
				assert.Contains(t, got["parse_tree"], "print_stmt", "tree for %s", tt.body)
			}
		})
	}
}

func TestRunMalformedBody(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, got := post(t, ts.URL+"/run", `{"code": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", got["status"])
	require.Len(t, got["details"], 1)
	assert.Contains(t, got["parser_error"], "invalid request body")
}

func TestRunBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 16})

	resp, got := post(t, ts.URL+"/run", `{"code": "print(1234567890);"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "error", got["status"])
}

func TestRunKeepsCallerRequestID(t *testing.T) {
	ts := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/run", strings.NewReader(`{"code": "int x = 1;"}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "abc-123", got["request_id"])
}

func TestAddTypo(t *testing.T) {
	a := analyzer.New(typo.NewDefault())
	ts := newTestServer(t, Config{Analyzer: a})

	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "valid entry",
			body:        `{"typo": "prnt", "correction": "print"}`,
			wantCode:    http.StatusOK,
			wantStatus:  "success",
			wantMessage: "Added typo 'prnt' with correction 'print'.",
		},
		{
			name:        "missing correction",
			body:        `{"typo": "prnt"}`,
			wantCode:    http.StatusOK,
			wantStatus:  "error",
			wantMessage: "Invalid input.",
		},
		{
			name:        "malformed body",
			body:        `not json`,
			wantCode:    http.StatusBadRequest,
			wantStatus:  "error",
			wantMessage: "Invalid input.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, got := post(t, ts.URL+"/add_typo", tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantStatus, got["status"])
			assert.Equal(t, tt.wantMessage, got["message"])
		})
	}

	// the new entry applies to the next analysis
	_, got := post(t, ts.URL+"/run", `{"code": "prnt(1);"}`)
	assert.Equal(t, "success", got["status"])
	assert.Equal(t, "print(1);", got["corrected_text"])
}

func TestTyposAndHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/typos")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var entries []typo.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, len(typo.Defaults()))
	assert.Equal(t, typo.Entry{Typo: "brak", Correction: "break"}, entries[0])

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	missing, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer func() { _ = missing.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestRunRecordsHistory(t *testing.T) {
	store, err := history.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ts := newTestServer(t, Config{History: store})
	post(t, ts.URL+"/run", `{"code": "int x = 5;"}`)
	post(t, ts.URL+"/run", `{"code": "print(x)", "auto_correct": false}`)

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, history.SourceHTTP, rec.Source)
	}
}

func TestServeListenerShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{Logger: testutil.NewTestLogger(t)}).ServeListener(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
