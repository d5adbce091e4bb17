package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры ядра боя.
// Ядро не требует файла: NewConfig дает рабочие значения, LoadConfig
// нужен только процессу-хосту.
type Config struct {
	// MaxCommandsPerFrame - сколько команд исполняется за один кадр
	MaxCommandsPerFrame int `yaml:"max_commands_per_frame"`

	// CommandTimeout - команда, простоявшая в очереди дольше, снимается с "timed out".
	// В YAML: число секунд (5.0) или строка длительности ("250ms").
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// EnableBatching=false ограничивает кадр одной командой
	EnableBatching bool `yaml:"enable_batching"`

	DebugLogging bool `yaml:"debug_logging"`

	// PathCacheSize - емкость кэша валидности путей
	PathCacheSize int `yaml:"path_cache_size"`

	// TickRate - кадров в секунду для серверного цикла
	TickRate int `yaml:"tick_rate"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		MaxCommandsPerFrame: 10,
		CommandTimeout:      5 * time.Second,
		EnableBatching:      true,
		DebugLogging:        false,
		PathCacheSize:       256,
		TickRate:            60,
	}
}

// CommandsPerFrame - фактический лимит кадра с учетом батчинга
func (c Config) CommandsPerFrame() int {
	if !c.EnableBatching {
		return 1
	}
	return c.MaxCommandsPerFrame
}

// TickInterval - длительность кадра серверного цикла
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate проверяет, что с конфигом можно запускать бой
func (c Config) Validate() error {
	if c.MaxCommandsPerFrame < 1 {
		return fmt.Errorf("max_commands_per_frame must be positive, got %d", c.MaxCommandsPerFrame)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.PathCacheSize < 0 {
		return fmt.Errorf("path_cache_size cannot be negative, got %d", c.PathCacheSize)
	}
	if c.TickRate < 1 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	return nil
}

// UnmarshalYAML разбирает command_timeout отдельно, остальные ключи как обычно
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config

	rest := *node
	rest.Content = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if node.Kind == yaml.MappingNode && key.Value == "command_timeout" {
			timeout, err := decodeTimeout(value)
			if err != nil {
				return err
			}
			c.CommandTimeout = timeout
			continue
		}
		rest.Content = append(rest.Content, key, value)
	}
	return rest.Decode((*plain)(c))
}

func decodeTimeout(value *yaml.Node) (time.Duration, error) {
	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	var d time.Duration
	if err := value.Decode(&d); err != nil {
		return 0, fmt.Errorf("command_timeout: want seconds or a duration, got %q", value.Value)
	}
	return d, nil
}

// LoadConfig накладывает YAML-файл поверх значений по умолчанию.
// Отсутствующие в файле ключи сохраняют значения NewConfig.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
