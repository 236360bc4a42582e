// Package runner — оркестрация обработки VIIRS-гранул.
//
// Runner держит подписку на SDR-уведомления и гоняет цикл
// Idle → Collecting → Draining:
//
//   - Aggregator фильтрует сообщения (платформа, сенсор, dataset)
//     и собирает файлы гранулы
//   - полная гранула уходит job'ом в worker.Pool
//   - Draining дожидается результатов в порядке submit, доставляет
//     продукты через edr.Deliver и публикует уведомления через
//     ProductPublisher
//
// Уведомление публикуется отдельно на каждый configured topic и
// только при непустом списке доставленных продуктов.
package runner
