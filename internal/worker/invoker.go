package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Invoker запускает CSPP Active Fires как дочерний процесс.
//
// Аргументы собираются по фиксированному шаблону:
//
//	<af_call> -d -W <workdir> --num-cpu <n> [-M] <sdr-файлы...>
//
// Процесс выполняется без shell — пути файлов из сообщений не
// интерпретируются. stdout и stderr стримятся в лог построчно,
// чтобы длинные запуски оставались наблюдаемыми.
type Invoker struct {
	afCall      string
	numCPUs     int
	mbands      bool
	workDirBase string
	logger      *slog.Logger
}

// InvokerConfig — конфигурация Invoker.
type InvokerConfig struct {
	// AFCall — путь к исполняемому файлу CSPP.
	AFCall string

	// NumCPUs — значение флага --num-cpu.
	NumCPUs int

	// Mbands — добавлять флаг -M (M-band обработка).
	Mbands bool

	// WorkDirBase — базовая директория для рабочих директорий.
	// Пустая строка — системная временная директория.
	WorkDirBase string

	// Logger
	Logger *slog.Logger
}

// NewInvoker создаёт новый Invoker.
func NewInvoker(cfg InvokerConfig) *Invoker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	numCPUs := cfg.NumCPUs
	if numCPUs <= 0 {
		numCPUs = 4
	}

	return &Invoker{
		afCall:      cfg.AFCall,
		numCPUs:     numCPUs,
		mbands:      cfg.Mbands,
		workDirBase: cfg.WorkDirBase,
		logger:      logger,
	}
}

// Invoke запускает CSPP над набором SDR-файлов и блокируется до выхода
// процесса.
//
// Возвращает рабочую директорию независимо от кода выхода: наличие
// полезного вывода определяет Collector, а не код выхода CSPP.
// Рабочая директория возвращается и при ошибке, чтобы вызывающий мог
// её убрать.
func (i *Invoker) Invoke(ctx context.Context, files []string) (string, error) {
	workDir, err := i.makeWorkDir()
	if err != nil {
		return "", err
	}

	args := []string{"-d", "-W", workDir, "--num-cpu", strconv.Itoa(i.numCPUs)}
	if i.mbands {
		args = append(args, "-M")
	}
	args = append(args, files...)

	i.logger.Info("starting CSPP",
		"call", i.afCall,
		"workdir", workDir,
		"sdr_files", len(files),
	)
	i.logger.Debug("CSPP arguments", "args", args)

	cmd := exec.CommandContext(ctx, i.afCall, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return workDir, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return workDir, fmt.Errorf("stderr pipe: %w", err)
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return workDir, fmt.Errorf("start %s: %w", i.afCall, err)
	}

	// Стримим вывод процесса в лог, пока он работает
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		i.streamOutput(stdout, "stdout")
	}()
	go func() {
		defer wg.Done()
		i.streamOutput(stderr, "stderr")
	}()
	wg.Wait()

	err = cmd.Wait()
	elapsed := time.Since(started)

	if err != nil {
		// Ненулевой выход сам по себе не фатален: частичный результат
		// возможен, решает Collector
		i.logger.Warn("CSPP exited with error",
			"error", err,
			"elapsed", elapsed,
		)
	} else {
		i.logger.Info("CSPP finished", "elapsed", elapsed)
	}

	return workDir, nil
}

// streamOutput читает вывод процесса построчно и пишет в лог.
func (i *Invoker) streamOutput(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	// CSPP может писать длинные строки с перечислением файлов
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		i.logger.Info(scanner.Text(), "cspp", stream)
	}
	if err := scanner.Err(); err != nil {
		i.logger.Warn("reading CSPP output failed", "stream", stream, "error", err)
		// Pipe нужно дочитать до конца: иначе процесс блокируется
		// на записи и cmd.Wait не вернётся
		io.Copy(io.Discard, r)
	}
}

// makeWorkDir создаёт свежую рабочую директорию для одного запуска.
// При недоступности базовой директории откатывается на системную временную.
func (i *Invoker) makeWorkDir() (string, error) {
	if i.workDirBase != "" {
		workDir, err := os.MkdirTemp(i.workDirBase, "cspp_af_")
		if err == nil {
			return workDir, nil
		}
		i.logger.Warn("failed to create workdir under base, falling back to system temp",
			"base", i.workDirBase,
			"error", err,
		)
	}

	workDir, err := os.MkdirTemp("", "cspp_af_")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoWorkDir, err)
	}
	return workDir, nil
}
