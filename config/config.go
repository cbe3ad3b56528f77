package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del planner.
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	Enhance EnhanceConfig `yaml:"enhance"`
	Data    DataConfig    `yaml:"data"`
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// PlannerConfig controla el barrido del catálogo y el filtrado.
type PlannerConfig struct {
	IntervalSeconds   int     `yaml:"interval_seconds"`
	RevalidateSeconds int     `yaml:"revalidate_seconds"` // mínimo entre chequeos del snapshot
	Workers           int     `yaml:"workers"`            // 0 = automático
	MaxResults        int     `yaml:"max_results"`
	MaxTotalCost      float64 `yaml:"max_total_cost"`
	MaxCostPerLevel   float64 `yaml:"max_cost_per_level"`
	MaxHours          float64 `yaml:"max_hours"`
	OnlyMirror        bool    `yaml:"only_mirror"`
}

// EnhanceConfig son los parámetros del personaje aplicados a cada plan.
type EnhanceConfig struct {
	EnhancingLevel int     `yaml:"enhancing_level"`
	HouseLevel     int     `yaml:"house_level"`
	ToolBonus      float64 `yaml:"tool_bonus"`  // fracción: 0.05 = +5% de éxito
	SpeedBonus     float64 `yaml:"speed_bonus"` // fracción: 0.25 = acciones 25% más rápidas
	TargetLevel    int     `yaml:"target_level"`
	BlessedTea     bool    `yaml:"blessed_tea"`
	GuzzlingBonus  float64 `yaml:"guzzling_bonus"`
}

// DataConfig apunta a los archivos de datos de juego y de mercado.
type DataConfig struct {
	CatalogPath string `yaml:"catalog_path"`
	MarketPath  string `yaml:"market_path"`
}

// CacheConfig controla la caché de planes.
type CacheConfig struct {
	Backend       string `yaml:"backend"` // memory | redis
	Capacity      int    `yaml:"capacity"`
	TTLSeconds    int    `yaml:"ttl_seconds"` // solo redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// StorageConfig controla dónde se persiste el histórico.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// SweepInterval devuelve el intervalo de barrido como time.Duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Planner.IntervalSeconds) * time.Second
}

// RevalidateEvery devuelve el mínimo entre chequeos del snapshot.
func (c *Config) RevalidateEvery() time.Duration {
	return time.Duration(c.Planner.RevalidateSeconds) * time.Second
}

// CacheTTL devuelve la vida máxima de un plan en la caché externa.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Planner.IntervalSeconds <= 0 {
		cfg.Planner.IntervalSeconds = 300
	}
	if cfg.Planner.RevalidateSeconds <= 0 {
		cfg.Planner.RevalidateSeconds = 30
	}
	if cfg.Planner.MaxResults <= 0 {
		cfg.Planner.MaxResults = 25
	}
	if cfg.Enhance.TargetLevel <= 0 {
		cfg.Enhance.TargetLevel = 10
	}
	if cfg.Data.CatalogPath == "" {
		cfg.Data.CatalogPath = "data/catalog.json"
	}
	if cfg.Data.MarketPath == "" {
		cfg.Data.MarketPath = "data/market.json"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = 100
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 900
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "enhancer.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
