package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Wildfire/internal/metrics"
	"github.com/shaiso/Wildfire/internal/telemetry"
)

// Default configuration values.
const (
	defaultWorkers   = 1
	defaultQueueSize = 64
)

// Handle — дескриптор завершения одного Job.
//
// Пул гарантирует, что для каждого submitted job дескриптор будет
// разрешён ровно одним JobResult — результат не теряется даже при
// ошибке invoker'а или collector'а.
type Handle struct {
	done   chan struct{}
	result *JobResult
}

// Ready сообщает, готов ли результат (не блокируется).
func (h *Handle) Ready() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait блокируется до готовности результата или отмены контекста.
func (h *Handle) Wait(ctx context.Context) (*JobResult, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// submission — job вместе с его дескриптором в очереди пула.
type submission struct {
	job    *Job
	handle *Handle
}

// Pool — пул фиксированного размера для запусков CSPP.
//
// Каждый слот выполняет invoke → collect для одного job. Ошибки
// конвертируются в JobResult с пустым списком продуктов — пул
// не завершается из-за неудачи одного job (failure isolation).
//
// Очередь подачи ограничена: Submit блокируется, когда очередь полна.
type Pool struct {
	invoker   *Invoker
	collector *Collector

	jobs chan submission

	logger *slog.Logger
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// PoolConfig — конфигурация Pool.
type PoolConfig struct {
	// Invoker — запуск CSPP (обязательно).
	Invoker *Invoker

	// Collector — сбор продуктов (обязательно).
	Collector *Collector

	// Workers — число одновременных запусков CSPP (default: 1).
	Workers int

	// QueueSize — ёмкость очереди подачи (default: 64).
	QueueSize int

	// Logger
	Logger *slog.Logger
}

// NewPool создаёт новый Pool.
func NewPool(cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		invoker:   cfg.Invoker,
		collector: cfg.Collector,
		jobs:      make(chan submission, queueSize),
		logger:    logger,
	}

	p.wg.Add(workers)
	for n := 0; n < workers; n++ {
		go func() {
			defer p.wg.Done()
			for sub := range p.jobs {
				p.execute(sub)
			}
		}()
	}

	logger.Info("worker pool started", "workers", workers, "queue_size", queueSize)

	return p
}

// Submit ставит job в очередь и возвращает дескриптор завершения.
// Блокируется, если очередь подачи заполнена.
func (p *Pool) Submit(job *Job) *Handle {
	handle := &Handle{done: make(chan struct{})}
	p.jobs <- submission{job: job, handle: handle}
	return handle
}

// Stop закрывает очередь и дожидается завершения начатых jobs.
// Запущенный CSPP не прерывается — завершение кооперативное.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()

	p.logger.Info("worker pool stopped")
}

// execute выполняет один job: invoke → collect.
func (p *Pool) execute(sub submission) {
	job := sub.job
	logger := telemetry.WithJobID(p.logger, job.ID.String())

	started := time.Now()
	result := &JobResult{}

	// Контекст пула не отменяется при shutdown: начатый запуск CSPP
	// дорабатывает до конца
	workDir, err := p.invoker.Invoke(context.Background(), job.Files)
	result.WorkDir = workDir

	if err != nil {
		logger.Warn("CSPP invocation failed", "error", err)
	} else {
		artifacts, err := p.collector.Collect(workDir)
		if err != nil {
			logger.Warn("collecting result files failed", "workdir", workDir, "error", err)
		} else {
			result.Artifacts = artifacts
		}
	}

	metrics.JobDuration.Observe(time.Since(started).Seconds())

	if len(result.Artifacts) == 0 {
		logger.Warn("no result files available, CSPP probably failed", "workdir", workDir)
	} else {
		logger.Info("job finished",
			"artifacts", len(result.Artifacts),
			"elapsed", time.Since(started),
		)
	}

	sub.handle.result = result
	close(sub.handle.done)
}
