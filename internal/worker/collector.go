package worker

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Collector находит EDR-файлы, произведённые CSPP в рабочей директории.
//
// Имена продуктов следуют конвенции CSPP Active Fires:
//   - AFIMG_* — продукты I-band обработки
//   - AFMOD_* — продукты M-band обработки
//
// Пустой результат — единственный сигнал о неудаче запуска CSPP,
// который видит управляющий цикл.
type Collector struct {
	patterns []string
}

// NewCollector создаёт Collector для I- или M-band продуктов.
func NewCollector(mbands bool) *Collector {
	prefix := "AFIMG_*"
	if mbands {
		prefix = "AFMOD_*"
	}
	return &Collector{
		patterns: []string{prefix + ".nc", prefix + ".txt"},
	}
}

// Collect возвращает пути EDR-файлов в рабочей директории
// в лексикографическом порядке (детерминированный выбор файла
// для извлечения времени гранулы downstream).
func (c *Collector) Collect(workDir string) ([]string, error) {
	var files []string

	for _, pattern := range c.patterns {
		matches, err := filepath.Glob(filepath.Join(workDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	sort.Strings(files)
	return files, nil
}
