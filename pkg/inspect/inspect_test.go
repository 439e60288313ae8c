package inspect

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reconcile/pkg/diff"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/metrics"
)

func setup(t *testing.T) (*Server, *diff.Container, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	body := dom.NewDocument().CreateElement("body")
	srv := NewServer(WithHTML(body.InnerHTML), WithGatherer(reg))
	c := diff.NewContainer(body,
		diff.WithObserver(srv),
		diff.WithMetrics(metrics.New(metrics.WithRegistry(reg))),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, c, ts
}

func commit(t *testing.T, c *diff.Container, tree any) {
	t.Helper()
	ctx := context.Background()
	if fut := c.Diff(ctx, tree, nil); fut != nil {
		t.Fatal("Diff() should complete synchronously")
	}
	c.Commit(ctx)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestHTTPRoutes(t *testing.T) {
	_, c, ts := setup(t)

	if code, _ := get(t, ts.URL+"/_reconcile/journal"); code != http.StatusNotFound {
		t.Errorf("journal before commit = %d, want 404", code)
	}

	commit(t, c, jsx.Div(jsx.Class("app"), "hi"))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"html", "/_reconcile/html", `<div class="app">hi</div>`},
		{"journal", "/_reconcile/journal", "frame 1 ("},
		{"metrics", "/metrics", "reconcile_commits_total 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, ts.URL+tt.path)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body = %q, want it to contain %q", body, tt.want)
			}
		})
	}
}

func TestHTMLWithoutSurface(t *testing.T) {
	ts := httptest.NewServer(NewServer().Handler())
	defer ts.Close()

	if code, _ := get(t, ts.URL+"/_reconcile/html"); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestCustomPath(t *testing.T) {
	srv := NewServer(WithPath("debug/"), WithHTML(func() string { return "ok" }))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if code, body := get(t, ts.URL+"/debug/html"); code != http.StatusOK || body != "ok" {
		t.Errorf("GET /debug/html = %d %q", code, body)
	}
}

func TestStream(t *testing.T) {
	srv, c, ts := setup(t)
	commit(t, c, jsx.P("one"))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_reconcile/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	read := func() *journal.Frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error: %v", err)
		}
		if kind != websocket.BinaryMessage {
			t.Fatalf("message type = %d, want binary", kind)
		}
		frame, err := journal.Decode(data)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		return frame
	}

	if f := read(); f.Seq != 1 {
		t.Errorf("first frame seq = %d, want 1", f.Seq)
	}

	commit(t, c, jsx.P("two"))
	f := read()
	if f.Seq != 2 {
		t.Errorf("second frame seq = %d, want 2", f.Seq)
	}
	if len(f.Records) != 1 || f.Records[0].Op != journal.OpTextSet || f.Records[0].Text != "two" {
		t.Errorf("records = %v, want a single TextSet", f.Records)
	}
	if srv.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", srv.Frames())
	}
}

func TestHTMLServesLastAppliedSnapshot(t *testing.T) {
	body := dom.NewDocument().CreateElement("body")
	renders := 0
	srv := NewServer(WithGatherer(prometheus.NewRegistry()), WithHTML(func() string {
		renders++
		return body.InnerHTML()
	}))
	c := diff.NewContainer(body, diff.WithObserver(srv))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	commit(t, c, jsx.P("one"))
	if fut := c.Diff(context.Background(), jsx.P("two"), nil); fut != nil {
		t.Fatal("Diff() should complete synchronously")
	}

	tests := []struct {
		name string
		want string
	}{
		{"first request", "<p>one</p>"},
		{"second request", "<p>one</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, got := get(t, ts.URL+"/_reconcile/html")
			if code != http.StatusOK || got != tt.want {
				t.Errorf("GET html = %d %q, want %q", code, got, tt.want)
			}
		})
	}
	if renders != 2 {
		t.Errorf("markup rendered %d times, want 2 (construction and one commit)", renders)
	}

	c.Commit(context.Background())
	if _, got := get(t, ts.URL+"/_reconcile/html"); got != "<p>two</p>" {
		t.Errorf("GET html after commit = %q", got)
	}
}
