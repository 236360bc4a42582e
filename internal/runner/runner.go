package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Wildfire/internal/edr"
	"github.com/shaiso/Wildfire/internal/metrics"
	"github.com/shaiso/Wildfire/internal/mq"
	"github.com/shaiso/Wildfire/internal/repo"
	"github.com/shaiso/Wildfire/internal/telemetry"
	"github.com/shaiso/Wildfire/internal/worker"
)

// Default configuration values.
const (
	defaultReceiveTimeout = 300 * time.Second
	defaultMessageBuffer  = 16
)

// productNotifier публикует уведомление о продуктах завершённого job.
type productNotifier interface {
	Publish(ctx context.Context, artifacts []string, orig map[string]any) error
}

// jobJournal ведёт журнал запусков.
type jobJournal interface {
	Create(ctx context.Context, rec *repo.JobRecord) error
	Finish(ctx context.Context, id uuid.UUID, artifactCount int, status string, finishedAt time.Time) error
}

// Runner — управляющий цикл обработки: Idle → Collecting → Draining → Idle.
//
// Runner — единственный владелец подписки и оркестрационного состояния:
//   - Collecting: сообщения по одному уходят в Aggregator; submit
//     заканчивает фазу
//   - Draining: для каждого job в порядке submit — ожидание результата,
//     доставка продуктов, уборка рабочей директории, публикация
//     уведомления (только при непустой доставке)
//
// Уведомления цикла N публикуются полностью до начала Collecting цикла
// N+1. Оценка сообщений строго последовательная; конкурентность есть
// только между jobs внутри пула.
type Runner struct {
	service        string
	outputDir      string
	receiveTimeout time.Duration

	conn       *mq.Connection
	consumer   *mq.Consumer
	pool       *worker.Pool
	aggregator *Aggregator
	products   productNotifier
	journal    jobJournal

	// msgCh — мост от consumer-callback'а к pull-модели цикла.
	msgCh chan *mq.Message

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Runner.
type Config struct {
	// Service — имя сервиса (определяет очередь подписки).
	Service string

	// OutputDir — корневая директория доставки продуктов.
	OutputDir string

	// ReceiveTimeout — окно ожидания сообщения в Collecting (default: 300s).
	ReceiveTimeout time.Duration

	// Conn — соединение с RabbitMQ.
	Conn *mq.Connection

	// Pool — пул запусков CSPP.
	Pool *worker.Pool

	// Products — публикация уведомлений о продуктах.
	Products *ProductPublisher

	// Journal — журнал запусков (опционально; nil — без журнала).
	Journal *repo.JobRepo

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	receiveTimeout := cfg.ReceiveTimeout
	if receiveTimeout <= 0 {
		receiveTimeout = defaultReceiveTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		service:        cfg.Service,
		outputDir:      cfg.OutputDir,
		receiveTimeout: receiveTimeout,
		conn:           cfg.Conn,
		pool:           cfg.Pool,
		aggregator:     NewAggregator(logger),
		msgCh:          make(chan *mq.Message, defaultMessageBuffer),
		logger:         logger,
	}
	if cfg.Products != nil {
		r.products = cfg.Products
	}
	// Nil-указатель не должен стать непустым интерфейсом
	if cfg.Journal != nil {
		r.journal = cfg.Journal
	}
	return r
}

// Start запускает Runner: consumer очереди SDR и управляющий цикл.
func (r *Runner) Start(ctx context.Context) error {
	if r.IsStopped() {
		return ErrRunnerStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancelFunc = cancel

	r.logger.Info("starting runner",
		"service", r.service,
		"receive_timeout", r.receiveTimeout,
	)

	r.consumer = mq.NewConsumer(r.conn, r.logger, mq.ConsumerConfig{
		Queue:    string(mq.SDRQueue(r.service)),
		Handler:  r.handleSDRMessage,
		Prefetch: 1,
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("sdr consumer error", "error", err)
		}
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.loop(ctx)
	}()

	r.logger.Info("runner started")
	return nil
}

// Stop останавливает Runner.
// Незавершившийся запуск CSPP блокирует остановку (см. drain).
func (r *Runner) Stop() {
	r.stoppedMu.Lock()
	r.stopped = true
	r.stoppedMu.Unlock()

	r.logger.Info("stopping runner...")

	if r.cancelFunc != nil {
		r.cancelFunc()
	}
	if r.consumer != nil {
		r.consumer.Stop()
	}

	r.wg.Wait()

	r.logger.Info("runner stopped")
}

// IsStopped проверяет, остановлен ли Runner.
func (r *Runner) IsStopped() bool {
	r.stoppedMu.RLock()
	defer r.stoppedMu.RUnlock()
	return r.stopped
}

// handleSDRMessage — callback consumer'а: передаёт сообщение в цикл.
//
// Ack сразу после передачи (at-most-once, как в posttroll): повторная
// доставка гранулы хуже потерянной — CSPP запустился бы дважды.
func (r *Runner) handleSDRMessage(ctx context.Context, delivery *mq.Delivery) error {
	metrics.MessagesReceived.Inc()

	msg := delivery.Message
	select {
	case r.msgCh <- &msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop — цикл обработки. Shutdown проверяется между циклами.
func (r *Runner) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r.cycle(ctx)
	}
}

// pendingJob — job текущего цикла вместе с дескриптором завершения.
// Дескрипторы собираются в порядке submit и вычитываются в том же
// порядке (FIFO внутри цикла).
type pendingJob struct {
	job       *worker.Job
	handle    *worker.Handle
	startedAt time.Time
}

// cycle — один проход Idle → Collecting → Draining.
func (r *Runner) cycle(ctx context.Context) {
	// Collecting: состояние агрегатора сбрасывается на каждый цикл
	unit := NewGranuleUnit()
	var pending []pendingJob

collecting:
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-r.msgCh:
			action := r.aggregator.Evaluate(msg, unit)
			switch action {
			case ActionIgnore:
				metrics.MessagesIgnored.Inc()

			case ActionSubmit:
				pending = append(pending, r.submit(ctx, unit))
				break collecting

			case ActionAccumulate:
				// Гранула ещё не полная — продолжаем собирать
			}

		case <-time.After(r.receiveTimeout):
			// Пустое окно приёма: ещё один проход Collecting
			// с тем же накопленным состоянием
			r.logger.Debug("no messages within receive window", "timeout", r.receiveTimeout)
		}
	}

	r.drain(pending)
}

// submit отправляет полную гранулу в пул и записывает старт в журнал.
func (r *Runner) submit(ctx context.Context, unit *GranuleUnit) pendingJob {
	job := worker.NewJob(unit.Files, unit.Data)
	startedAt := time.Now().UTC()

	logger := telemetry.WithPlatform(telemetry.WithJobID(r.logger, job.ID.String()), unit.Platform)
	logger.Info("granule complete, submitting job", "sdr_files", len(unit.Files))

	if r.journal != nil {
		rec := &repo.JobRecord{
			ID:          job.ID,
			Service:     r.service,
			Platform:    unit.Platform,
			Sensor:      unit.Sensor,
			OrbitNumber: orbitNumber(unit.Data),
			SDRCount:    len(unit.Files),
			Status:      repo.JobStatusRunning,
			StartedAt:   startedAt,
		}
		if err := r.journal.Create(ctx, rec); err != nil {
			logger.Warn("failed to journal job start", "error", err)
		}
	}

	handle := r.pool.Submit(job)
	metrics.JobsSubmitted.Inc()

	return pendingJob{job: job, handle: handle, startedAt: startedAt}
}

// drain вычитывает результаты jobs текущего цикла в порядке submit:
// доставка продуктов, уборка рабочей директории, публикация уведомления.
//
// Весь drain идёт вне родительского контекста: запущенный CSPP
// дорабатывает до конца и блокирует shutdown, а его продукты и запись
// в журнале доводятся до конца даже после отмены контекста runner'а.
func (r *Runner) drain(pending []pendingJob) {
	ctx := context.Background()

	for _, pd := range pending {
		logger := telemetry.WithJobID(r.logger, pd.job.ID.String())

		result, _ := pd.handle.Wait(ctx)

		delivered, err := edr.Deliver(result.Artifacts, r.outputDir, "")
		if err != nil {
			logger.Warn("delivery problems", "error", err)
		}

		if err := edr.Cleanup(result.WorkDir); err != nil {
			logger.Warn("workdir cleanup failed", "error", err)
		}

		status := repo.JobStatusEmpty
		if len(delivered) > 0 {
			status = repo.JobStatusSucceeded
			logger.Info("job drained",
				"artifacts", len(delivered),
				"elapsed", time.Since(pd.startedAt),
			)

			if err := r.products.Publish(ctx, delivered, pd.job.Data); err != nil {
				logger.Error("failed to publish product notification", "error", err)
			}
		} else {
			metrics.JobsEmpty.Inc()
			logger.Warn("job produced no artifacts, nothing to publish")
		}

		if r.journal != nil {
			if err := r.journal.Finish(ctx, pd.job.ID, len(delivered), status, time.Now().UTC()); err != nil {
				logger.Warn("failed to journal job finish", "error", err)
			}
		}
	}
}

// orbitNumber извлекает orbit_number из data-словаря.
// После json.Unmarshal числа приходят как float64.
func orbitNumber(data map[string]any) int64 {
	switch v := data["orbit_number"].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
