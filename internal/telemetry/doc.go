// Package telemetry настраивает structured logging для всех компонентов Wildfire.
//
// Логгер конфигурируется через переменные окружения:
//   - LOG_LEVEL  — DEBUG | INFO | WARN | ERROR (default: INFO)
//   - LOG_FORMAT — json | text (default: json)
//
// Хелперы WithJobID/WithPlatform/WithService добавляют стандартные
// атрибуты к логгеру, чтобы записи одного job можно было коррелировать.
package telemetry
