package janitor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// workDirPrefix — префикс рабочих директорий CSPP (см. worker.Invoker).
const workDirPrefix = "cspp_af_"

// cronParser — парсер cron-выражений (стандартные 5 полей).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Janitor периодически убирает осиротевшие рабочие директории CSPP.
//
// В штатном режиме рабочая директория удаляется после сбора продуктов.
// Остаться она может после аварийного завершения процесса: janitor
// подчищает такие директории по расписанию, чтобы working_dir не
// зарастал гигабайтами промежуточных файлов.
type Janitor struct {
	workDirBase string
	maxAge      time.Duration

	cron   *cron.Cron
	logger *slog.Logger
}

// Config — конфигурация Janitor.
type Config struct {
	// WorkDirBase — базовая директория рабочих директорий CSPP.
	WorkDirBase string

	// CronExpr — расписание уборки (default: "30 * * * *").
	CronExpr string

	// MaxAge — минимальный возраст директории для удаления (default: 24h).
	MaxAge time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Janitor.
func New(cfg Config) (*Janitor, error) {
	cronExpr := cfg.CronExpr
	if cronExpr == "" {
		cronExpr = "30 * * * *"
	}

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	j := &Janitor{
		workDirBase: cfg.WorkDirBase,
		maxAge:      maxAge,
		cron:        cron.New(cron.WithParser(cronParser)),
		logger:      logger,
	}

	if _, err := j.cron.AddFunc(cronExpr, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid cleanup cron expression %q: %w", cronExpr, err)
	}

	return j, nil
}

// Start запускает расписание уборки.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("janitor started", "base", j.workDirBase, "max_age", j.maxAge)
}

// Stop останавливает расписание и дожидается текущей уборки.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("janitor stopped")
}

// sweep — один проход уборки по расписанию.
func (j *Janitor) sweep() {
	removed, err := j.Sweep(time.Now())
	if err != nil {
		j.logger.Warn("janitor sweep finished with errors", "removed", removed, "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("janitor removed stale workdirs", "removed", removed)
	}
}

// Sweep удаляет рабочие директории старше maxAge относительно now.
// Возвращает количество удалённых директорий.
//
// Трогаются только директории с префиксом cspp_af_ непосредственно
// в workDirBase: чужие файлы рядом janitor не касается.
func (j *Janitor) Sweep(now time.Time) (int, error) {
	if j.workDirBase == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(j.workDirBase)
	if err != nil {
		return 0, fmt.Errorf("read workdir base: %w", err)
	}

	var removed int
	var firstErr error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workDirPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < j.maxAge {
			continue
		}

		path := filepath.Join(j.workDirBase, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			j.logger.Warn("failed to remove stale workdir", "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		j.logger.Debug("removed stale workdir", "path", path, "age", now.Sub(info.ModTime()))
		removed++
	}

	return removed, firstErr
}
