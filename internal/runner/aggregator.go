package runner

import (
	"log/slog"
	"net/url"

	"github.com/shaiso/Wildfire/internal/mq"
)

// Признанные VIIRS-платформы.
var viirsPlatforms = map[string]bool{
	"Suomi-NPP": true,
	"NOAA-20":   true,
	"NOAA-21":   true,
}

// Единственный сенсор, который обрабатывает runner.
const viirsSensor = "viirs"

// Action — решение агрегатора по одному сообщению.
type Action int

// Возможные решения.
const (
	// ActionIgnore — сообщение не относится к обработке.
	ActionIgnore Action = iota

	// ActionAccumulate — состояние гранулы обновлено, но submit ещё рано.
	ActionAccumulate

	// ActionSubmit — гранула полная, job уходит в пул, фаза Collecting
	// текущего цикла заканчивается.
	ActionSubmit
)

// String возвращает имя решения для логов.
func (a Action) String() string {
	switch a {
	case ActionIgnore:
		return "ignore"
	case ActionAccumulate:
		return "accumulate"
	case ActionSubmit:
		return "submit"
	default:
		return "unknown"
	}
}

// GranuleUnit — рабочее состояние агрегатора в пределах одного цикла.
//
// Создаётся при входе в Collecting, мутируется только агрегатором,
// при submit передаётся в Job и отбрасывается.
type GranuleUnit struct {
	// Files — накопленные пути SDR-файлов в порядке dataset-списка.
	Files []string

	// Platform — platform_name из сообщения (например, Suomi-NPP).
	Platform string

	// Sensor — имя сенсора из сообщения.
	Sensor string

	// Data — data-словарь сообщения, вызвавшего submit.
	Data map[string]any
}

// NewGranuleUnit создаёт пустое состояние для нового цикла.
func NewGranuleUnit() *GranuleUnit {
	return &GranuleUnit{}
}

// Aggregator решает, является ли входящее сообщение полной единицей работы.
//
// Модель — одна гранула на сообщение: каждое подходящее dataset-сообщение
// само по себе полная единица, поэтому непустой список файлов сразу
// означает Submit.
type Aggregator struct {
	platforms map[string]bool
	sensor    string
	logger    *slog.Logger
}

// NewAggregator создаёт Aggregator с набором VIIRS-платформ по умолчанию.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		platforms: viirsPlatforms,
		sensor:    viirsSensor,
		logger:    logger,
	}
}

// Evaluate оценивает одно сообщение и обновляет состояние гранулы.
//
// Никаких побочных эффектов кроме обновления unit: весь I/O отложен
// до пула.
func (a *Aggregator) Evaluate(msg *mq.Message, unit *GranuleUnit) Action {
	platform := msg.StringField("platform_name")
	sensor := msg.StringField("sensor")

	if platform == "" || sensor == "" {
		a.logger.Debug("no platform_name or sensor in message, ignoring", "message_id", msg.ID)
		return ActionIgnore
	}

	if !a.platforms[platform] || sensor != a.sensor {
		a.logger.Info("not a VIIRS scene, ignoring",
			"platform_name", platform,
			"sensor", sensor,
		)
		return ActionIgnore
	}

	if msg.Type != mq.MessageTypeDataset {
		a.logger.Info("not a dataset message, ignoring", "type", msg.Type)
		return ActionIgnore
	}

	entries, err := msg.DatasetEntries()
	if err != nil {
		a.logger.Warn("malformed dataset list, ignoring", "message_id", msg.ID, "error", err)
		return ActionIgnore
	}
	if len(entries) == 0 {
		a.logger.Debug("empty dataset list, ignoring", "message_id", msg.ID)
		return ActionIgnore
	}

	// Из каждого URI берём только path-компонент: схема и хост
	// отбрасываются, файлы считаются локально доступными
	for _, entry := range entries {
		unit.Files = append(unit.Files, uriPath(entry.URI))
	}

	unit.Platform = platform
	unit.Sensor = sensor
	unit.Data = msg.Data

	if len(unit.Files) > 0 {
		return ActionSubmit
	}
	return ActionAccumulate
}

// uriPath извлекает path-компонент из URI.
// Некорректный URI возвращается как есть (трактуется как локальный путь).
func uriPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return uri
	}
	return u.Path
}
