// internal/forecast/pool.go
package forecast

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/domain"
)

// MaxPoolWorkers caps the worker pool regardless of CPU count; per-sku
// forecasting is cheap enough that more workers just add memory pressure.
const MaxPoolWorkers = 4

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("forecast pool closed")

// Task is one product's forecasting workload: its own independent time
// series, read-only once built.
type Task struct {
	SKUID        string
	SKUName      string
	Observations []Observation
}

// Result is the per-product outcome collected by the orchestrator.
type Result struct {
	SKUID          string
	SKUName        string
	Points         []domain.ForecastPoint
	Model          domain.ForecastModel
	VelocityChange float64
}

// Pool is a bounded worker pool for CPU-bound forecasting. It is
// constructed once at service startup and passed by reference; workers
// start lazily on first use and live for the rest of the process.
type Pool struct {
	size int

	startOnce sync.Once
	jobs      chan func()

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count, clamped to
// [1, min(NumCPU, MaxPoolWorkers)].
func NewPool(size int) *Pool {
	max := runtime.NumCPU()
	if max > MaxPoolWorkers {
		max = MaxPoolWorkers
	}
	if size < 1 || size > max {
		size = max
	}
	return &Pool{size: size}
}

func (p *Pool) start() {
	p.startOnce.Do(func() {
		p.jobs = make(chan func())
		log.Info().Int("workers", p.size).Msg("starting forecast worker pool")
		for i := 0; i < p.size; i++ {
			go func() {
				for job := range p.jobs {
					job()
				}
			}()
		}
	})
}

// Submit dispatches a job to the pool, blocking until a worker picks it
// up or the context ends.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.start()
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and lets idle workers exit.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.jobs != nil {
		close(p.jobs)
	}
}

// Orchestrator fans per-product forecasting across the pool and merges
// the results. Products are independent, so completion order never
// matters.
type Orchestrator struct {
	pool    *Pool
	timeout time.Duration
}

// NewOrchestrator wires an orchestrator to a shared pool. timeout bounds
// one whole batch, not one product.
func NewOrchestrator(pool *Pool, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Orchestrator{pool: pool, timeout: timeout}
}

// ForecastAll computes a forecast and velocity change for every task,
// keyed by sku id. One product's failure or timeout drops that product
// only; a pool dispatch failure degrades the whole batch to sequential
// execution. Correctness never depends on the pool working.
func (o *Orchestrator) ForecastAll(ctx context.Context, tasks []Task, horizon int) map[string]Result {
	results := make(map[string]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	batchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	out := make(chan outcome, len(tasks))

	submitted := 0
	for _, task := range tasks {
		task := task
		err := o.pool.Submit(batchCtx, func() {
			res, err := runTask(task, horizon)
			out <- outcome{res: res, err: err}
		})
		if err != nil {
			log.Warn().Err(err).Msg("forecast pool dispatch failed, falling back to sequential")
			return o.forecastSequential(ctx, tasks, horizon)
		}
		submitted++
	}

	for i := 0; i < submitted; i++ {
		select {
		case oc := <-out:
			if oc.err != nil {
				log.Warn().Err(oc.err).Str("sku", oc.res.SKUID).Msg("forecast worker failed, dropping product")
				continue
			}
			results[oc.res.SKUID] = oc.res
		case <-batchCtx.Done():
			log.Warn().Int("completed", len(results)).Int("total", submitted).
				Msg("forecast batch timed out, proceeding with completed products")
			return results
		}
	}

	return results
}

// forecastSequential runs every task in-process, one at a time.
func (o *Orchestrator) forecastSequential(ctx context.Context, tasks []Task, horizon int) map[string]Result {
	results := make(map[string]Result, len(tasks))
	for _, task := range tasks {
		if ctx.Err() != nil {
			return results
		}
		res, err := runTask(task, horizon)
		if err != nil {
			log.Warn().Err(err).Str("sku", task.SKUID).Msg("sequential forecast failed, dropping product")
			continue
		}
		results[res.SKUID] = res
	}
	return results
}

func runTask(task Task, horizon int) (Result, error) {
	res := Result{SKUID: task.SKUID, SKUName: task.SKUName}

	series := NewSeries(task.Observations)
	res.VelocityChange = VelocityChange(series, DefaultRecentDays, DefaultCompareDays)

	points, model, err := Forecast(series, horizon)
	if err != nil {
		return res, err
	}

	res.Points = points
	res.Model = model
	return res, nil
}
