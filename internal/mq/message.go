package mq

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MessageType — тип сообщения на шине.
//
// Семантика повторяет типы сообщений pytroll/posttroll:
//   - dataset    — набор файлов одного прохода спутника (actionable для runner)
//   - file       — одиночный файл
//   - collection — коллекция datasets
type MessageType string

// Типы сообщений.
const (
	MessageTypeDataset    MessageType = "dataset"
	MessageTypeFile       MessageType = "file"
	MessageTypeCollection MessageType = "collection"
)

// Message — конверт сообщения на шине Wildfire.
//
// Topic хранится в posttroll-формате ("/segment/AFIMG/..."), в AMQP
// он транслируется в routing key через TopicToRoutingKey.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Topic — topic сообщения в posttroll-формате.
	Topic string `json:"topic"`

	// Data — полезная нагрузка (platform_name, sensor, orbit_number, dataset, ...).
	Data map[string]any `json:"data"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// DatasetEntry — одна запись в dataset-списке сообщения: URI файла и его UID.
type DatasetEntry struct {
	URI string `json:"uri"`
	UID string `json:"uid"`
}

// StringField возвращает строковое поле из Data.
// Пустая строка, если поле отсутствует или не строка.
func (m *Message) StringField(key string) string {
	if v, ok := m.Data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// DatasetEntries извлекает dataset-список из Data.
//
// После json.Unmarshal dataset приходит как []any из map'ов,
// поэтому перегоняем через JSON в типизированный срез.
func (m *Message) DatasetEntries() ([]DatasetEntry, error) {
	raw, ok := m.Data["dataset"]
	if !ok {
		return nil, nil
	}

	rawBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset: %w", err)
	}

	var entries []DatasetEntry
	if err := json.Unmarshal(rawBytes, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal dataset: %w", err)
	}

	return entries, nil
}

// TopicToRoutingKey переводит posttroll-topic в AMQP routing key.
//
//	"/segment/SDR/1B" → "segment.SDR.1B"
func TopicToRoutingKey(topic string) RoutingKey {
	trimmed := strings.Trim(topic, "/")
	return RoutingKey(strings.ReplaceAll(trimmed, "/", "."))
}

// TopicToBindingKey переводит posttroll-topic подписки в binding pattern.
// Подписка в posttroll — префиксная, поэтому добавляем "#".
//
//	"/segment/SDR" → "segment.SDR.#"
func TopicToBindingKey(topic string) string {
	key := string(TopicToRoutingKey(topic))
	if key == "" {
		return "#"
	}
	return key + ".#"
}
