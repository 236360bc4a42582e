package worker

import "errors"

// Ошибки invoker'а.
var (
	// ErrNoWorkDir — не удалось создать рабочую директорию
	// ни в базовой, ни в системной временной директории.
	ErrNoWorkDir = errors.New("cannot create working directory")
)
