package pipeline

import "github.com/inodb/vibevcf/internal/vcfmodel"

// Config holds the tunable parameters for one pipeline run. It is expected
// to have already been validated by internal/config before reaching here.
type Config struct {
	ParserCount         int
	BatchSize           int
	LineQueueCapacity   int
	RecordQueueCapacity int
}

// Context owns the queues and worker pool for exactly one pipeline run. A
// fresh Context is created per invocation and torn down when the run
// returns, so no state leaks between files processed by the same caller.
type Context struct {
	config  Config
	lines   *Queue[vcfmodel.RawLine]
	records *Queue[vcfmodel.ParsedRecord]
	pool    *Pool
}

// NewContext allocates the queues and starts the parser worker pool for cfg.
func NewContext(cfg Config) *Context {
	return &Context{
		config:  cfg,
		lines:   NewQueue[vcfmodel.RawLine](cfg.LineQueueCapacity),
		records: NewQueue[vcfmodel.ParsedRecord](cfg.RecordQueueCapacity),
		pool:    NewPool(cfg.ParserCount),
	}
}

// Close stops the worker pool. Queues need no explicit teardown: they are
// simply left for garbage collection once the goroutines holding references
// to them exit.
func (c *Context) Close() {
	c.pool.Stop()
}

func (c *Context) LineQueue() *Queue[vcfmodel.RawLine]        { return c.lines }
func (c *Context) RecordQueue() *Queue[vcfmodel.ParsedRecord] { return c.records }
func (c *Context) Pool() *Pool                                { return c.pool }
func (c *Context) ParserCount() int                           { return c.config.ParserCount }
func (c *Context) BatchSize() int                             { return c.config.BatchSize }
