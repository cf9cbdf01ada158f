package procguard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func requireUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func TestControllerFacadeSpawnStop(t *testing.T) {
	requireUnix(t)
	c := New()
	h, err := c.Spawn(context.Background(), SpawnSpec{Command: "sleep", Args: []string{"30"}})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if !c.IsRunning(h.PID) {
		t.Fatalf("pid %d not running after spawn", h.PID)
	}
	got := c.Terminate(context.Background(), h.PID, TerminationPolicy{Timeout: 2 * time.Second, PollInterval: 50 * time.Millisecond})
	if got != StoppedGracefully {
		t.Fatalf("terminate: got %s", got)
	}
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("handle not reaped")
	}
}

func TestSpawnErrorFacade(t *testing.T) {
	_, err := New().Spawn(context.Background(), SpawnSpec{Command: "definitely-not-a-command-xyz"})
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SpawnError, got %v", err)
	}
}

func TestLockFacade(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.lock")
	if err := AcquireLock(p); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if TryAcquireLock(p) {
		t.Fatal("second acquire by the same process must fail")
	}
	err := AcquireLock(p)
	if !errors.Is(err, ErrLockContention) {
		t.Fatalf("expected contention, got %v", err)
	}
	ReleaseLock(p)
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("lock file still present: %v", err)
	}
	if !TryAcquireLock(p) {
		t.Fatal("acquire after release failed")
	}
	ReleaseLock(p)
}

func TestLoadConfigFacade(t *testing.T) {
	p := filepath.Join(t.TempDir(), "procguard.toml")
	if err := os.WriteFile(p, []byte("[terminate]\nforce = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.Policy().Force {
		t.Fatal("force not loaded")
	}
}

func TestMetricsFacade(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterMetrics(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterMetrics(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}

	srv := NewMetricsServer(":0")
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("content type %q", resp.Header.Get("Content-Type"))
	}
}
