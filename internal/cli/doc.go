// Package cli реализует команды wildfire-cli.
//
// Команды:
//   - inject — публикация тестового SDR-уведомления в RabbitMQ
//   - jobs   — просмотр журнала запусков CSPP в Postgres
package cli
