package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/sorrel/pkg/matching"
)

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"sorrel-api"`
	Port       int    `env:"PORT" env-default:"3004"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	HttpServerWriteTimeoutSeconds int `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`

	// Tracing
	OtelExporterEndpoint string `env:"OTEL_EXPORTER_ENDPOINT" env-default:""`

	// PostgreSQL (findings and rule sets)
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"sorrel"`
	DatabaseSSLMode             string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce      int           `env:"DB_MIGRATION_FORCE" env-default:"0"`

	// Graph Database (Memgraph) mirror of duplicate groups
	GraphDBEnabled  bool   `env:"GRAPH_DB_ENABLED" env-default:"false"`
	GraphDBHost     string `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort     int    `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser     string `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword string `env:"GRAPH_DB_PASSWORD" env-default:""`

	// Kafka Consumer (roster snapshots from ingestion)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"roster-snapshots"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"sorrel-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (duplicate finding events)
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"duplicate-findings"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Resolution engine fallback heuristic. These weights are empirical
	// defaults, not derived from labeled data.
	FallbackEmailExactWeight    float64 `env:"FALLBACK_EMAIL_EXACT_WEIGHT" env-default:"0.6"`
	FallbackPhoneExactWeight    float64 `env:"FALLBACK_PHONE_EXACT_WEIGHT" env-default:"0.3"`
	FallbackNameSimWeight       float64 `env:"FALLBACK_NAME_SIM_WEIGHT" env-default:"0.2"`
	FallbackBirthDateWeight     float64 `env:"FALLBACK_BIRTH_DATE_WEIGHT" env-default:"0.1"`
	FallbackLinkOverlapWeight   float64 `env:"FALLBACK_LINK_OVERLAP_WEIGHT" env-default:"0.1"`
	FallbackAliasLocalWeight    float64 `env:"FALLBACK_ALIAS_LOCAL_WEIGHT" env-default:"0.1"`
	FallbackLikelyThreshold     float64 `env:"FALLBACK_LIKELY_THRESHOLD" env-default:"0.8"`
	FallbackPossibleThreshold   float64 `env:"FALLBACK_POSSIBLE_THRESHOLD" env-default:"0.6"`
	FallbackLinkOverlapRatio    float64 `env:"FALLBACK_LINK_OVERLAP_RATIO" env-default:"0.5"`
	FallbackStrongNameThreshold float64 `env:"FALLBACK_STRONG_NAME_THRESHOLD" env-default:"0.85"`
}

// FallbackWeights assembles the engine's fallback heuristic weights from the
// environment-backed fields.
func (c Config) FallbackWeights() matching.FallbackWeights {
	return matching.FallbackWeights{
		EmailExact:           c.FallbackEmailExactWeight,
		PhoneExact:           c.FallbackPhoneExactWeight,
		NameSimilarity:       c.FallbackNameSimWeight,
		BirthDateProximity:   c.FallbackBirthDateWeight,
		LinkOverlap:          c.FallbackLinkOverlapWeight,
		AliasLocal:           c.FallbackAliasLocalWeight,
		LikelyThreshold:      c.FallbackLikelyThreshold,
		PossibleThreshold:    c.FallbackPossibleThreshold,
		LinkOverlapRatio:     c.FallbackLinkOverlapRatio,
		StrongNameSimilarity: c.FallbackStrongNameThreshold,
	}
}

// Load reads configuration from the environment, with .env overrides when
// present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
