package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shaiso/Wildfire/internal/edr"
	"github.com/shaiso/Wildfire/internal/metrics"
	"github.com/shaiso/Wildfire/internal/mq"
)

// Фиксированные поля исходящего уведомления об AF-продуктах.
const (
	productFormat   = "EDR"
	productType     = "NETCDF"
	processingLevel = "2"
)

// Формат start_time/end_time в data-словаре (как в posttroll).
const messageTimeLayout = "2006-01-02T15:04:05"

// ProductPublisher собирает и публикует уведомление о готовых продуктах
// одного завершённого job.
//
// Уведомление публикуется в каждый настроенный topic — по одному
// сообщению на topic.
type ProductPublisher struct {
	publisher   *mq.Publisher
	topics      []string
	site        string
	environment string
	logger      *slog.Logger
}

// NewProductPublisher создаёт ProductPublisher.
func NewProductPublisher(publisher *mq.Publisher, topics []string, site, environment string, logger *slog.Logger) *ProductPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductPublisher{
		publisher:   publisher,
		topics:      topics,
		site:        site,
		environment: environment,
		logger:      logger,
	}
}

// Publish публикует уведомление о списке доставленных продуктов.
//
// No-op при пустом списке: для job без продуктов уведомление
// не публикуется никогда.
func (p *ProductPublisher) Publish(ctx context.Context, artifacts []string, orig map[string]any) error {
	if len(artifacts) == 0 {
		return nil
	}

	data := p.buildData(artifacts, orig)

	for _, base := range p.topics {
		topic := p.buildTopic(base)
		if err := p.publisher.PublishProduct(ctx, topic, data); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
		metrics.ProductsPublished.Inc()

		p.logger.Info("product notification published",
			"topic", topic,
			"artifacts", len(artifacts),
		)
	}

	return nil
}

// buildTopic собирает полный topic: базовый segment + уровень обработки,
// станция и окружение.
//
//	/AFIMG/2/norrkoping/prod/polar/direct_readout
func (p *ProductPublisher) buildTopic(base string) string {
	segments := []string{
		strings.Trim(base, "/"),
		processingLevel,
		p.site,
		p.environment,
		"polar",
		"direct_readout",
	}
	return "/" + strings.Join(segments, "/")
}

// buildData собирает data-словарь исходящего сообщения.
//
// Берётся копия полей исходного сообщения; dataset заменяется записями
// о продуктах, format/type/data_processing_level — фиксированные,
// orbit_number переносится с сохранением оригинала в orig_orbit_number.
func (p *ProductPublisher) buildData(artifacts []string, orig map[string]any) map[string]any {
	data := make(map[string]any, len(orig)+6)
	for k, v := range orig {
		if k == "dataset" {
			continue
		}
		data[k] = v
	}

	hostname, _ := os.Hostname()

	dataset := make([]map[string]any, 0, len(artifacts))
	for _, file := range artifacts {
		dataset = append(dataset, map[string]any{
			"uri": "ssh://" + hostname + file,
			"uid": filepath.Base(file),
		})
	}
	data["dataset"] = dataset

	data["format"] = productFormat
	data["type"] = productType
	data["data_processing_level"] = processingLevel

	// Время гранулы — из имени первого продукта (список отсортирован,
	// выбор детерминированный)
	start, end, err := edr.ParseTimes(artifacts[0])
	if err != nil {
		p.logger.Warn("cannot parse granule times from artifact name",
			"artifact", filepath.Base(artifacts[0]),
			"error", err,
		)
	} else {
		data["start_time"] = start.Format(messageTimeLayout)
		data["end_time"] = end.Format(messageTimeLayout)
	}

	if orbit, ok := orig["orbit_number"]; ok {
		data["orig_orbit_number"] = orbit
		data["orbit_number"] = orbit
	}

	return data
}
