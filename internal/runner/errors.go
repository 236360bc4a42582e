package runner

import "errors"

// Ошибки пакета runner.
var (
	// ErrRunnerStopped — попытка запустить остановленный Runner.
	ErrRunnerStopped = errors.New("runner is stopped")
)
