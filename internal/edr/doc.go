// Package edr содержит файловые утилиты для продуктов CSPP Active Fires:
// разбор времени гранулы из имени EDR-файла, доставку продуктов в выходную
// директорию и уборку рабочих директорий.
package edr
