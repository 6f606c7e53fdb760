package configs

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServiceConfig defines the catalog service configuration.
type ServiceConfig struct {
	API              apiConfig              `yaml:"api"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	MessengerConfig  MessengerConfig        `yaml:"messenger"`
	DatabaseConfig   DatabaseConfig         `yaml:"database"`
	Jaeger           JaegerConfig           `yaml:"jaeger"`
	Prometheus       PrometheusConfig       `yaml:"prometheus"`
	Jobs             JobsConfig             `yaml:"jobs"`
	Cache            CacheConfig            `yaml:"cache"`
}

type apiConfig struct {
	Port      int `yaml:"port"`
	RateLimit int `yaml:"rateLimit"`
	RateBurst int `yaml:"rateBurst"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

type MessengerConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Address string `yaml:"address"`
	GroupID string `yaml:"groupId"`
	Topic   string `yaml:"topic"`
}

type DatabaseConfig struct {
	Mysql MysqlConfig `yaml:"mysql"`
}

type MysqlConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
	Name string `yaml:"db_name"`
}

type JaegerConfig struct {
	URL string `yaml:"url"`
}

type PrometheusConfig struct {
	MetricsPort int `yaml:"metricsPort"`
}

// JobsConfig defines the periodic jobs cadence.
type JobsConfig struct {
	MovieStatsInterval time.Duration `yaml:"movieStatsInterval"`
	SweeperInterval    time.Duration `yaml:"sweeperInterval"`
	TickTimeout        time.Duration `yaml:"tickTimeout"`
	UseLock            bool          `yaml:"useLock"`
}

// CacheConfig defines the review cache settings.
type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Capacity int           `yaml:"capacity"`
}

// Default returns the configuration used for unset values.
func Default() ServiceConfig {
	return ServiceConfig{
		API: apiConfig{Port: 8080, RateLimit: 100, RateBurst: 50},
		MessengerConfig: MessengerConfig{Kafka: KafkaConfig{
			GroupID: "catalog",
			Topic:   "reviews",
		}},
		DatabaseConfig: DatabaseConfig{Mysql: MysqlConfig{Host: "localhost", Port: 3306}},
		Prometheus:     PrometheusConfig{MetricsPort: 8091},
		Jobs: JobsConfig{
			MovieStatsInterval: 30 * time.Second,
			SweeperInterval:    45 * time.Second,
			TickTimeout:        5 * time.Minute,
		},
		Cache: CacheConfig{TTL: time.Minute, Capacity: 10000},
	}
}

// Load reads the YAML configuration at path on top of Default.
func Load(path string) (ServiceConfig, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
