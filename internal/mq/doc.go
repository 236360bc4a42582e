// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges и очереди сервиса
//   - message.go    — конверт сообщения, dataset-записи, трансляция topic → routing key
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений
//
// Сообщения повторяют модель pytroll/posttroll: конверт с type
// (dataset/file/collection), topic и data-словарём. Topic'и вида
// "/segment/SDR/1B" транслируются в AMQP routing keys на topic-обменниках.
//
// Exchanges:
//   - wildfire.sdr      — входящие уведомления о SDR-гранулах
//   - wildfire.products — исходящие уведомления об AF-продуктах
package mq
