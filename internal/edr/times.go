package edr

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Формат полей даты и времени в имени EDR-файла.
const timesLayout = "20060102150405"

// ParseTimes извлекает время начала и конца гранулы из имени EDR-файла.
//
// Имена файлов CSPP Active Fires следуют фиксированной грамматике:
//
//	AFIMG_npp_d20210413_t0916186_e0917428_b49018_c20210413092919781783_cspp_dev.txt
//	       │   │          │         │
//	       │   │          │         └─ конец: HHMMSS + десятые доли
//	       │   │          └─ начало: HHMMSS + десятые доли
//	       │   └─ дата: YYYYMMDD
//	       └─ спутник
//
// Десятые доли секунды отбрасываются. Если конец меньше начала,
// гранула пересекает полночь — к концу добавляются сутки.
func ParseTimes(filename string) (time.Time, time.Time, error) {
	base := filepath.Base(filename)
	parts := strings.Split(base, "_")
	if len(parts) < 5 {
		return time.Time{}, time.Time{}, fmt.Errorf("unexpected EDR filename: %s", base)
	}

	date, startField, endField := parts[2], parts[3], parts[4]
	if len(date) != 9 || date[0] != 'd' ||
		len(startField) != 8 || startField[0] != 't' ||
		len(endField) != 8 || endField[0] != 'e' {
		return time.Time{}, time.Time{}, fmt.Errorf("unexpected EDR filename: %s", base)
	}

	start, err := time.Parse(timesLayout, date[1:]+startField[1:7])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start time of %s: %w", base, err)
	}

	end, err := time.Parse(timesLayout, date[1:]+endField[1:7])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end time of %s: %w", base, err)
	}

	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}

	return start, end, nil
}
