package preview

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchidea/sitebuilder/internal/server/handlers"
	"github.com/glitchidea/sitebuilder/internal/server/httpserver"
)

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.json"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/layout.html.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/projects.json~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/projects.json"))
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 10 {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRebuilder_OneFollowUpWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var builds atomic.Int32
	var mu sync.Mutex
	var results []error

	r := NewRebuilder(func(context.Context) error {
		n := builds.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-release
		}
		return nil
	}, func(err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Request()
	<-started
	for range 5 {
		r.Request()
	}
	close(release)
	<-started

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), builds.Load())
	mu.Lock()
	assert.Len(t, results, 2)
	mu.Unlock()
}

func TestInjectScript(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(page, []byte("<html><BODY><p>x</p></BODY></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frag.html"), []byte("<p>no body</p>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("</body>"), 0o600))

	n, err := InjectScript(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, `<html><BODY><p>x</p><script src="/livereload.js"></script>`+"\n</BODY></html>", string(b))

	n, err = InjectScript(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second pass leaves files alone")
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()
	defer hub.Shutdown()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	hub.Broadcast("abc")
	hub.Broadcast("abc")

	sc := bufio.NewScanner(resp.Body)
	var data []string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") {
			data = append(data, line)
			break
		}
	}
	require.Equal(t, []string{`data: {"hash":"abc"}`}, data)
}

func TestServer_LiveReloadThroughMiddleware(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()
	hub.Broadcast("h1")
	ts := httptest.NewServer(httpserver.New(httpserver.Options{OutputDir: t.TempDir(), LiveReload: hub}).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/livereload") // #nosec G107 -- test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	var first string
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "data: ") {
			first = line
			break
		}
	}
	assert.Equal(t, `data: {"hash":"h1"}`, first)
}

func TestHub_RejectsAfterShutdown(t *testing.T) {
	hub := NewHub()
	hub.Shutdown()
	w := httptest.NewRecorder()
	hub.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "content")
	out := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(src, 0o750))

	var builds atomic.Int32
	build := func(context.Context) error {
		n := builds.Add(1)
		if n == 3 {
			return errors.New("broken template")
		}
		if err := os.MkdirAll(out, 0o750); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(out, "index.html"), []byte("<html><body>ok</body></html>"), 0o600)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Sources:     []string{src, filepath.Join(root, "missing")},
			OutputDir:   out,
			Build:       build,
			QuietWindow: 20 * time.Millisecond,
			Listener:    ln,
			Server:      httpserver.Options{Content: handlers.DirSource{Dir: src}},
		})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "/livereload.js")

	resp, err = http.Get(base + "/livereload.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, os.WriteFile(filepath.Join(src, "projects.json"), []byte(`{"projects":[]}`), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview did not stop")
	}
}
