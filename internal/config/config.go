package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultWorkers        = 1
	defaultNumCPUs        = 4
	defaultReceiveTimeout = 300
	defaultQueueSize      = 64
	defaultCleanupCron    = "30 * * * *"
	defaultWorkdirMaxAge  = 24
	defaultMetricsAddr    = ":8093"
)

// Config — конфигурация одного сервиса (viirs-ibands / viirs-mbands).
//
// YAML-файл содержит секцию на каждый сервис:
//
//	viirs-mbands:
//	  subscribe_topics: ["/segment/SDR/1B"]
//	  publish_topics: ["/AFIMG"]
//	  af_call: /opt/cspp/bin/cspp_active_fire_noaa.sh
//	  ...
type Config struct {
	// Service — имя сервиса (из аргумента командной строки, не из YAML).
	Service string `yaml:"-"`

	// Environment — окружение обработки: utv/test/prod (из аргумента).
	Environment string `yaml:"-"`

	// SubscribeTopics — posttroll-topic'и входящих SDR-уведомлений.
	SubscribeTopics []string `yaml:"subscribe_topics"`

	// PublishTopics — базовые topic'и для публикации продуктов.
	// Уведомление публикуется в каждый topic из списка.
	PublishTopics []string `yaml:"publish_topics"`

	// AFCall — путь к исполняемому файлу CSPP Active Fires.
	AFCall string `yaml:"af_call"`

	// NumCPUs — значение флага --num-cpu для одного запуска CSPP.
	NumCPUs int `yaml:"num_of_cpus"`

	// Workers — размер пула одновременных запусков CSPP.
	Workers int `yaml:"ncpus"`

	// Mbands — обрабатывать M-band гранулы (флаг -M).
	// Если не задано, выводится из имени сервиса.
	Mbands *bool `yaml:"mbands"`

	// OutputDir — корневая директория для готовых продуктов.
	OutputDir string `yaml:"output_dir"`

	// WorkDirBase — базовая директория для рабочих директорий CSPP.
	// Пустая строка — системная временная директория.
	WorkDirBase string `yaml:"working_dir"`

	// Site — идентификатор станции (входит в publish-topic).
	Site string `yaml:"site"`

	// ReceiveTimeoutSec — таймаут ожидания сообщения в фазе Collecting.
	ReceiveTimeoutSec int `yaml:"receive_timeout_sec"`

	// QueueSize — размер очереди подачи jobs в пул.
	QueueSize int `yaml:"queue_size"`

	// CleanupCron — расписание уборки устаревших рабочих директорий.
	CleanupCron string `yaml:"cleanup_cron"`

	// WorkdirMaxAgeHours — возраст, после которого рабочая директория
	// считается брошенной и удаляется janitor'ом.
	WorkdirMaxAgeHours int `yaml:"workdir_max_age_hours"`

	// MetricsAddr — адрес HTTP-сервера с /metrics и /healthz.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load читает YAML-файл и возвращает конфигурацию указанного сервиса.
func Load(path, service, environment string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var services map[string]*Config
	if err := yaml.Unmarshal(raw, &services); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, ok := services[service]
	if !ok || cfg == nil {
		return nil, fmt.Errorf("service %q not found in %s", service, path)
	}

	cfg.Service = service
	cfg.Environment = environment

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MbandsEnabled сообщает, нужен ли CSPP флаг -M.
func (c *Config) MbandsEnabled() bool {
	if c.Mbands != nil {
		return *c.Mbands
	}
	return strings.Contains(c.Service, "mbands")
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.NumCPUs <= 0 {
		c.NumCPUs = defaultNumCPUs
	}
	if c.ReceiveTimeoutSec <= 0 {
		c.ReceiveTimeoutSec = defaultReceiveTimeout
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.CleanupCron == "" {
		c.CleanupCron = defaultCleanupCron
	}
	if c.WorkdirMaxAgeHours <= 0 {
		c.WorkdirMaxAgeHours = defaultWorkdirMaxAge
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = defaultMetricsAddr
	}
}

func (c *Config) validate() error {
	if len(c.SubscribeTopics) == 0 {
		return fmt.Errorf("subscribe_topics is required")
	}
	if len(c.PublishTopics) == 0 {
		return fmt.Errorf("publish_topics is required")
	}
	if c.AFCall == "" {
		return fmt.Errorf("af_call is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Site == "" {
		return fmt.Errorf("site is required")
	}
	return nil
}
