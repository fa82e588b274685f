package server

import (
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
	"github.com/gorilla/websocket"

	"github.com/matzehuels/topiccloud/pkg/cache"
	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/measure"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/scene"
	"github.com/matzehuels/topiccloud/pkg/selection"
	"github.com/matzehuels/topiccloud/pkg/source"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

var testTopics = source.Static{
	{Label: "Berlin", Volume: 165, SentimentScore: 65, Sentiment: topic.Sentiment{Positive: 29, Neutral: 133, Negative: 3}},
	{Label: "DJ", Volume: 48, SentimentScore: 54, Sentiment: topic.Sentiment{Positive: 2, Neutral: 46}},
	{Label: "Rave", Volume: 3, SentimentScore: 20, Sentiment: topic.Sentiment{Negative: 3}},
}

type recordingConn struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (c *recordingConn) Publish(_ string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, data)
	return nil
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func newTestServer(t *testing.T, src source.Source, options ...Option) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	opts := pipeline.Options{Measurer: measure.Fallback{}}
	return New(Config{}, runner, src, opts, options...)
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNotReady(t *testing.T) {
	s := newTestServer(t, testTopics)
	for _, path := range []string{"/", "/cloud.svg", "/api/scene", "/api/health"} {
		if rec := do(t, s.Handler(), http.MethodGet, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s before reload = %d, want 503", path, rec.Code)
		}
	}
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, testTopics)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	rec := do(t, s.Handler(), http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>My Topics Challenge</h1>", selection.NoSelection, `id="topic-panel"`, selectPath} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(body, "<text "); n != len(testTopics) {
		t.Errorf("page has %d words, want %d", n, len(testTopics))
	}
}

func TestSelect(t *testing.T) {
	conn := &recordingConn{}
	s := newTestServer(t, testTopics, WithPublisher(selection.NewPublisher(conn, "", log.New(io.Discard))))
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s.Handler(), http.MethodPost, "/api/select/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/select/1 = %d: %s", rec.Code, rec.Body)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Information on topic: DJ") || !strings.Contains(body, "Total Mentions: 48") {
		t.Errorf("panel = %s", body)
	}
	if n := conn.count(); n != 1 {
		t.Errorf("published %d events, want exactly 1", n)
	}

	if body := do(t, s.Handler(), http.MethodGet, "/").Body.String(); !strings.Contains(body, "Information on topic: DJ") {
		t.Error("page should show the selected topic")
	}
	if body := do(t, s.Handler(), http.MethodGet, "/cloud.svg").Body.String(); !strings.Contains(body, "word neutral selected") {
		t.Error("svg should mark the selected word")
	}
}

func TestSelectInvalid(t *testing.T) {
	conn := &recordingConn{}
	s := newTestServer(t, testTopics, WithPublisher(selection.NewPublisher(conn, "", log.New(io.Discard))))
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path string
		code int
	}{
		{"/api/select/3", http.StatusNotFound},
		{"/api/select/-1", http.StatusNotFound},
		{"/api/select/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, s.Handler(), http.MethodPost, tt.path); rec.Code != tt.code {
			t.Errorf("POST %s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
	if n := conn.count(); n != 0 {
		t.Errorf("invalid clicks published %d events", n)
	}
}

func TestSceneAndTopic(t *testing.T) {
	s := newTestServer(t, testTopics)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s.Handler(), http.MethodGet, "/api/scene")
	sc, err := scene.ReadScene(rec.Body)
	if err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if sc.Len() != len(testTopics) {
		t.Errorf("scene words = %d", sc.Len())
	}

	rec = do(t, s.Handler(), http.MethodGet, "/api/topics/2")
	var w scene.Word
	if err := json.NewDecoder(rec.Body).Decode(&w); err != nil {
		t.Fatal(err)
	}
	if w.Label != "Rave" || w.Class != "negative" || w.Index != 2 {
		t.Errorf("topic 2 = %+v", w)
	}
	if rec := do(t, s.Handler(), http.MethodGet, "/api/topics/7"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/topics/7 = %d, want 404", rec.Code)
	}
}

func TestReloadEndpoint(t *testing.T) {
	s := newTestServer(t, testTopics)
	rec := do(t, s.Handler(), http.MethodPost, "/api/reload")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/reload = %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Words int `json:"words"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Words != len(testTopics) {
		t.Errorf("reload body = %+v, %v", body, err)
	}
	if rec := do(t, s.Handler(), http.MethodGet, "/api/health"); rec.Code != http.StatusOK {
		t.Errorf("health after reload = %d", rec.Code)
	}
}

// racingSource starts a newer pass on the server while loading.
type racingSource struct {
	source.Static
	srv  *Server
	once sync.Once
}

func (r *racingSource) Load(ctx context.Context) ([]topic.Topic, error) {
	r.once.Do(func() { r.srv.target.Begin() })
	return r.Static.Load(ctx)
}

func TestReloadSuperseded(t *testing.T) {
	src := &racingSource{Static: testTopics}
	s := newTestServer(t, src)
	src.srv = s

	err := s.Reload(context.Background())
	if !errors.Is(err, errors.ErrCodeSuperseded) {
		t.Fatalf("Reload() error = %v, want SUPERSEDED", err)
	}
	if _, ok := s.current(); ok {
		t.Error("superseded reload must not commit")
	}

	// A later reload wins.
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload() error = %v", err)
	}
	if _, ok := s.current(); !ok {
		t.Error("second reload should commit")
	}
}

func TestInvalidate(t *testing.T) {
	s := newTestServer(t, testTopics)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Invalidate()
	if rec := do(t, s.Handler(), http.MethodGet, "/"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET / after Invalidate = %d, want 503", rec.Code)
	}
}

func TestWebSocketReceivesSelection(t *testing.T) {
	s := newTestServer(t, testTopics)
	if err := s.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.hub.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/api/select/0", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev selection.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Index != 0 || ev.Label != "Berlin" {
		t.Errorf("event = %+v, want index 0 Berlin", ev)
	}
}

func TestWebSocketOrigin(t *testing.T) {
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	cfg := Config{CORSOrigins: []string{"https://allowed.example"}}
	s := New(cfg, runner, testTopics, pipeline.Options{Measurer: measure.Fallback{}})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.hub.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{"listed origin", "https://allowed.example", http.StatusSwitchingProtocols},
		{"no origin header", "", http.StatusSwitchingProtocols},
		{"foreign origin", "https://evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if conn != nil {
				conn.Close()
			}
			if resp == nil {
				t.Fatalf("dial: no response: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("handshake status = %d, want %d (err %v)", resp.StatusCode, tt.want, err)
			}
		})
	}
}

func TestCheckOriginWildcard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	if !checkOrigin([]string{"*"})(req) {
		t.Error("a * origin should accept every origin")
	}
	if checkOrigin(nil)(req) {
		t.Error("an empty origin list should reject a cross-origin handshake")
	}
}

// invalidatingWriter drops the committed cloud as soon as a reload logs
// that it is ready.
type invalidatingWriter struct {
	srv *Server
}

func (w *invalidatingWriter) Write(p []byte) (int, error) {
	if w.srv != nil && strings.Contains(string(p), "cloud ready") {
		w.srv.Invalidate()
	}
	return len(p), nil
}

func TestReloadEndpointInvalidatedAfterCommit(t *testing.T) {
	w := &invalidatingWriter{}
	s := newTestServer(t, testTopics, WithLogger(log.New(w)))
	w.srv = s

	rec := do(t, s.Handler(), http.MethodPost, "/api/reload")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/reload = %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		ID    string `json:"id"`
		Words int    `json:"words"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Words != len(testTopics) || body.ID == "" {
		t.Errorf("reload body = %+v", body)
	}
	if _, ok := s.current(); ok {
		t.Error("the cloud should be invalidated after the reload")
	}
}
