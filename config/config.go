package config

import "time"

type Config struct {
	AppName                       string `env:"APP_NAME" env-default:"fern-api"`
	Port                          int    `env:"PORT" env-default:"3000"`
	LogLevel                      string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool   `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int    `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int    `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int    `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int    `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ShutdownTimeoutSeconds        int    `env:"HTTP_SERVER_SHUTDOWN_TIMEOUT_SECONDS" env-default:"10"`
	StartupMaxAttempts            int    `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// App document with the pages, global state and connections served
	AppFile string `env:"APP_FILE" env-default:"app.yaml"`

	// Page storage. Without it only the pages of the app document are served.
	DatabaseEnabled bool `env:"DB_ENABLED" env-default:"false"`
	// Database host
	DatabaseHost string `env:"DB_HOST" env-default:"localhost"`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:""`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"fern"`
	// Database SSL Mode
	DatabaseSSLMode string `env:"DB_SSL_MODE" env-default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Snapshot store. Snapshots stay in memory when disabled.
	RedisEnabled       bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost          string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort          int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword      string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB            int    `env:"REDIS_DB" env-default:"0"`
	SnapshotTTLSeconds int    `env:"SNAPSHOT_TTL_SECONDS" env-default:"86400"`

	// Action events and the Publish action
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaEventsTopic  string   `env:"KAFKA_EVENTS_TOPIC" env-default:"fern-action-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing. The logger exporter writes spans at debug level.
	TracingEnabled  bool          `env:"TRACING_ENABLED" env-default:"false"`
	TracingExporter string        `env:"TRACING_EXPORTER" env-default:"logger"`
	TracingEndpoint string        `env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	TracingInsecure bool          `env:"TRACING_INSECURE" env-default:"true"`
	TracingHeaders  []string      `env:"TRACING_HEADERS" env-default:""`
	TracingTimeout  time.Duration `env:"TRACING_TIMEOUT" env-default:"10s"`
}
