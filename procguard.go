package procguard

import (
	"net/http"
	"time"

	"github.com/loykin/procguard/internal/config"
	"github.com/loykin/procguard/internal/lockfile"
	"github.com/loykin/procguard/internal/logger"
	"github.com/loykin/procguard/internal/metrics"
	"github.com/loykin/procguard/internal/process"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Controller = process.Controller

type Option = process.Option

type Handle = process.Handle

type SpawnSpec = process.SpawnSpec

type SpawnError = process.SpawnError

type OutputConfig = logger.OutputConfig

type TerminationPolicy = process.TerminationPolicy

type Outcome = process.Outcome

const (
	AlreadyStopped    = process.AlreadyStopped
	StoppedGracefully = process.StoppedGracefully
	StoppedForcibly   = process.StoppedForcibly
	Failed            = process.Failed
)

var (
	WithLogger       = process.WithLogger
	WithWaitInterval = process.WithWaitInterval
)

var ErrTerminationFailed = process.ErrTerminationFailed

// New returns a Controller backed by the host OS.
func New(opts ...Option) *Controller { return process.NewController(opts...) }

type Locker = lockfile.Locker

type ContentionError = lockfile.ContentionError

var ErrLockContention = lockfile.ErrLockContention

// AcquireLock takes the lock at path for the current process.
func AcquireLock(path string) error { return lockfile.Acquire(path) }

// TryAcquireLock is AcquireLock reduced to a boolean.
func TryAcquireLock(path string) bool { return lockfile.TryAcquire(path) }

// ReleaseLock removes the lock at path, ignoring errors.
func ReleaseLock(path string) { lockfile.Release(path) }

type Config = config.Config

func LoadConfig(path string) (*Config, error) { return config.Load(path) }

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// NewMetricsServer returns an http.Server exposing /metrics from the default
// registry on addr. The caller runs and shuts it down.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
