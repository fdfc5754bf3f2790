package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Содержит параметры мира, событийной шины и метрик.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// WorldConfig параметры симуляции мира
type WorldConfig struct {
	Seed               int64   `yaml:"seed"`
	ActivationRange    float64 `yaml:"activation_range"`    // Радиус активации чанков (в блоках)
	DeactivationOffset float64 `yaml:"deactivation_offset"` // Гистерезис деактивации
	SavePath           string  `yaml:"save_path"`           // Директория файлов чанков
	TickRate           int     `yaml:"tick_rate"`           // Тиков симуляции в секунду
	UseBadger          bool    `yaml:"use_badger"`          // Хранить чанки в BadgerDB вместо файлов
}

type EventBusConfig struct {
	URL       string `yaml:"url"`    // nats://... ; пусто — in-memory шина
	Stream    string `yaml:"stream"` // Имя JetStream стрима
	Retention int    `yaml:"retention_hours"`
}

type MetricsConfig struct {
	Port int `yaml:"port"` // Порт Prometheus /metrics; 0 — выключено
}

// GetActivationRange возвращает радиус активации с поддержкой fallback значений
func (w *WorldConfig) GetActivationRange() float64 {
	return getFloatWithEnvFallback(w.ActivationRange, "WORLD_ACTIVATION_RANGE", 80.0)
}

// GetDeactivationOffset возвращает гистерезис деактивации с поддержкой fallback значений
func (w *WorldConfig) GetDeactivationOffset() float64 {
	return getFloatWithEnvFallback(w.DeactivationOffset, "WORLD_DEACTIVATION_OFFSET", 16.0)
}

// GetSavePath возвращает директорию сохранений
func (w *WorldConfig) GetSavePath() string {
	if w.SavePath != "" {
		return w.SavePath
	}
	if env := os.Getenv("WORLD_SAVE_PATH"); env != "" {
		return env
	}
	return "Saves"
}

// GetTickRate возвращает частоту тиков симуляции
func (w *WorldConfig) GetTickRate() int {
	if w.TickRate > 0 {
		return w.TickRate
	}
	return 60
}

// getFloatWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getFloatWithEnvFallback(configValue float64, envVar string, defaultValue float64) float64 {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if value, err := strconv.ParseFloat(envVal, 64); err == nil && value > 0 {
			return value
		}
	}

	// Используем дефолтное значение
	return defaultValue
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV GAME_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
