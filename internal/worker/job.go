package worker

import "github.com/google/uuid"

// Job — единица работы: один запуск CSPP над набором SDR-файлов гранулы.
//
// Data — data-словарь исходного сообщения; он нужен позже для сборки
// исходящего уведомления о продуктах.
type Job struct {
	// ID — идентификатор job (для логов и журнала).
	ID uuid.UUID

	// Files — пути SDR-файлов в порядке из исходного сообщения.
	Files []string

	// Data — полезная нагрузка сообщения, вызвавшего submit.
	Data map[string]any
}

// JobResult — результат одного завершённого Job.
//
// Пустой список Artifacts означает, что CSPP не произвёл продуктов
// (упал или не нашёл пожаров в валидных данных) — это не ошибка пула.
type JobResult struct {
	// WorkDir — рабочая директория запуска (для доставки и уборки).
	WorkDir string

	// Artifacts — пути EDR-файлов, найденных в WorkDir, в лексикографическом порядке.
	Artifacts []string
}

// NewJob создаёт Job с новым идентификатором.
func NewJob(files []string, data map[string]any) *Job {
	return &Job{
		ID:    uuid.New(),
		Files: files,
		Data:  data,
	}
}
