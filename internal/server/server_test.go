package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardsheet/pkg/buildinfo"
	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/observability"
	"github.com/matzehuels/cardsheet/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	srv := New(Config{
		Logger: log.New(io.Discard),
		Store:  store,
	})
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

const fiveCards = `{
	"settings": {"page_size": "A4", "margin": 10, "spacing": 5},
	"back": "back.png",
	"images": [
		{"src": "a.png", "width": 63, "height": 88},
		{"src": "b.png", "width": 63, "height": 88},
		{"src": "c.png", "width": 63, "height": 88},
		{"src": "d.png", "width": 63, "height": 88},
		{"src": "e.png", "width": 63, "height": 88}
	]
}`

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}
}

func TestVersion(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d", rec.Code)
	}
	if diff := cmp.Diff(buildinfo.Get(), decode[buildinfo.Info](t, rec)); diff != "" {
		t.Errorf("version mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateLayout(t *testing.T) {
	srv, store := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodPost, "/api/layouts", fiveCards)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/layouts = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	got := decode[layoutResponse](t, rec)
	if got.ID == "" {
		t.Fatal("response has no id")
	}
	if got.Stats.TotalPages != 2 || got.Stats.TotalCards != 5 {
		t.Errorf("stats = %+v, want 2 pages and 5 cards", got.Stats)
	}
	if !got.Validation.IsValid {
		t.Errorf("validation = %+v, want valid", got.Validation)
	}
	if got.Back == nil {
		t.Fatal("back layout missing")
	}
	if got.Alignment == nil || !got.Alignment.IsAligned {
		t.Errorf("alignment = %+v, want aligned", got.Alignment)
	}

	var xs []float64
	for _, c := range got.Back.Pages[0][:2] {
		xs = append(xs, c.X)
		if c.Src != "back.png" {
			t.Errorf("back card src = %q", c.Src)
		}
	}
	if diff := cmp.Diff([]float64{137, 69}, xs); diff != "" {
		t.Errorf("back x mismatch (-want +got):\n%s", diff)
	}

	job, err := store.Get(context.Background(), got.ID)
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if diff := cmp.Diff(got.Front, job.Front); diff != "" {
		t.Errorf("stored front mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateLayoutDefaultSettings(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Router(), http.MethodPost, "/api/layouts",
		`{"images": [{"src": "a.png", "width": 63, "height": 88}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[layoutResponse](t, rec)
	c := got.Front.Pages[0][0]
	if c.X != 10 || c.Y != 10 {
		t.Errorf("card at (%v,%v), want (10,10)", c.X, c.Y)
	}
	if got.Back != nil || got.Alignment != nil {
		t.Error("back and alignment should be absent without a back image")
	}
}

func TestCreateLayoutErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		code     errors.Code
		findings int
	}{
		{"malformed json", `{"images": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput, 0},
		{"unknown field", `{"pictures": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput, 0},
		{"no images", `{"images": []}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, 1},
		{"missing size", `{"images": [{"src": "a.png", "width": 0, "height": 600}]}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, 2},
		{"unknown page size", `{"settings": {"page_size": "Letter"}, "images": [{"src": "a.png", "width": 63, "height": 88}]}`, http.StatusBadRequest, errors.ErrCodeUnknownPageSize, 0},
		{"negative margin", `{"settings": {"page_size": "A4", "margin": -1}, "images": [{"src": "a.png", "width": 63, "height": 88}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput, 0},
		{"traversal", `{"images": [{"src": "../a.png", "width": 63, "height": 88}]}`, http.StatusBadRequest, errors.ErrCodeInvalidPath, 0},
		{"bad back", `{"back": "../b.png", "images": [{"src": "a.png", "width": 63, "height": 88}]}`, http.StatusBadRequest, errors.ErrCodeInvalidPath, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			rec := do(t, srv.Router(), http.MethodPost, "/api/layouts", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			got := decode[errorResponse](t, rec)
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if len(got.Findings) != tt.findings {
				t.Errorf("findings = %v, want %d", got.Findings, tt.findings)
			}
		})
	}
}

func createLayout(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/layouts", fiveCards)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[layoutResponse](t, rec).ID
}

func TestGetAndDeleteLayout(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	id := createLayout(t, h)

	rec := do(t, h, http.MethodGet, "/api/layouts/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	job := decode[storage.Job](t, rec)
	if job.ID != id || job.Back != "back.png" || job.Front.NumCards() != 5 {
		t.Errorf("job = %s/%s/%d cards", job.ID, job.Back, job.Front.NumCards())
	}

	if rec := do(t, h, http.MethodDelete, "/api/layouts/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/layouts/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET after delete = %d, want 404", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Code != errors.ErrCodeLayoutNotFound {
		t.Errorf("code = %q", got.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/layouts/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestListLayouts(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	createLayout(t, h)
	createLayout(t, h)

	rec := do(t, h, http.MethodGet, "/api/layouts?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET = %d", rec.Code)
	}
	got := decode[struct {
		Layouts []layoutSummary `json:"layouts"`
	}](t, rec)
	if len(got.Layouts) != 1 {
		t.Fatalf("got %d layouts, want 1", len(got.Layouts))
	}
	if s := got.Layouts[0]; s.Pages != 2 || s.Cards != 5 || !s.HasBack {
		t.Errorf("summary = %+v", s)
	}

	if rec := do(t, h, http.MethodGet, "/api/layouts?limit=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", rec.Code)
	}
}

func TestGuidesAndReport(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	id := createLayout(t, h)

	rec := do(t, h, http.MethodGet, "/api/layouts/"+id+"/guides?mark_size=4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET guides = %d: %s", rec.Code, rec.Body.String())
	}
	g := decode[struct {
		ID     string              `json:"id"`
		Guides []guides.PageGuides `json:"guides"`
	}](t, rec)
	if g.ID != id || len(g.Guides) != 2 {
		t.Fatalf("guides = %s with %d pages", g.ID, len(g.Guides))
	}
	if n := len(g.Guides[0].Cards); n != 4 {
		t.Errorf("page 1 has %d card guides, want 4", n)
	}

	for _, q := range []string{"fold_size=-1", "mark_size=NaN", "mark_size=Inf", "fold_size=-Inf", "mark_size=abc"} {
		rec := do(t, h, http.MethodGet, "/api/layouts/"+id+"/guides?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("guides?%s = %d, want 400", q, rec.Code)
			continue
		}
		if e := decode[errorResponse](t, rec); e.Code != errors.ErrCodeInvalidSettings {
			t.Errorf("guides?%s code = %s, want %s", q, e.Code, errors.ErrCodeInvalidSettings)
		}
	}

	rec = do(t, h, http.MethodGet, "/api/layouts/"+id+"/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET report = %d", rec.Code)
	}
	rep := decode[guides.Report](t, rec)
	if rep.TotalPages != 2 || rep.TotalCards != 5 || rep.Settings.PageSize != "A4" {
		t.Errorf("report = %d pages, %d cards, %q", rep.TotalPages, rep.TotalCards, rep.Settings.PageSize)
	}

	if rec := do(t, h, http.MethodGet, "/api/layouts/missing/report", ""); rec.Code != http.StatusNotFound {
		t.Errorf("report for unknown id = %d, want 404", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidSettings, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnknownPageSize, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeLayoutNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []string
}

func (h *recordingHooks) OnRequest(_ context.Context, method, route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+route)
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+route+" "+http.StatusText(status))
}

func TestRequestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, srv.Router(), http.MethodGet, "/api/layouts/abc", "")

	if diff := cmp.Diff([]string{"GET /api/layouts/abc"}, hooks.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
	if len(hooks.responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(hooks.responses))
	}
	resp := hooks.responses[0]
	if !strings.HasPrefix(resp, "GET /api/layouts/{id}") || !strings.HasSuffix(resp, "Not Found") {
		t.Errorf("response = %q, want the matched pattern and 404", resp)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnRequest(ctx, http.MethodGet, "/health")
	h.OnResponse(ctx, http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	h.OnResponse(ctx, http.MethodPost, "/api/layouts", http.StatusBadRequest, time.Millisecond)
	h.OnResponse(ctx, http.MethodPost, "/api/layouts", http.StatusInternalServerError, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"DEBU request", "INFO response", "WARN response", "ERRO response", "status=400", "route=/api/layouts"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRunShutsDown(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0", Logger: log.New(io.Discard)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
