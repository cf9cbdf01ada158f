package process

import (
	"log/slog"
	"os"
	"time"

	"github.com/loykin/procguard/internal/detector"
)

// Controller spawns, queries and terminates processes.
// It holds no per-process state and is safe for concurrent use.
type Controller struct {
	prober       Prober
	signaler     Signaler
	lister       detector.Lister
	clock        Clock
	log          *slog.Logger
	waitInterval time.Duration
	self         int
}

type Option func(*Controller)

func WithProber(p Prober) Option { return func(c *Controller) { c.prober = p } }

func WithSignaler(s Signaler) Option { return func(c *Controller) { c.signaler = s } }

func WithLister(l detector.Lister) Option { return func(c *Controller) { c.lister = l } }

func WithClock(cl Clock) Option { return func(c *Controller) { c.clock = cl } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithWaitInterval sets the poll interval of WaitForExit.
func WithWaitInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.waitInterval = d
		}
	}
}

// NewController returns a Controller backed by the host OS.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		prober:       osProber{},
		signaler:     osSignaler{},
		lister:       detector.TableLister{},
		clock:        realClock{},
		waitInterval: DefaultWaitInterval,
		self:         os.Getpid(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}
