package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"marketplace"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisAddr string `env:"REDIS_ADDR"`

	KafkaBrokers          []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTransactionTopic string   `env:"KAFKA_TRANSACTION_TOPIC" envDefault:"marketplace.transactions"`

	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	SMTPFrom     string        `env:"SMTP_FROM" envDefault:"no-reply@marketplace.local"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER"`

	ImpactFactorsPath string `env:"IMPACT_FACTORS_PATH"`

	DeliveryWorkers       int           `env:"DELIVERY_WORKERS" envDefault:"2"`
	DeliveryQueueSize     int           `env:"DELIVERY_QUEUE_SIZE" envDefault:"256"`
	BroadcastSendInterval time.Duration `env:"BROADCAST_SEND_INTERVAL" envDefault:"100ms"`

	NotificationRetentionRead time.Duration `env:"NOTIFICATION_RETENTION_READ" envDefault:"720h"`
	NotificationRetentionAll  time.Duration `env:"NOTIFICATION_RETENTION_ALL" envDefault:"8760h"`
	RetentionSchedule         string        `env:"RETENTION_SCHEDULE" envDefault:"0 0 3 * * *"`
	OverdueScanSchedule       string        `env:"OVERDUE_SCAN_SCHEDULE" envDefault:"0 */5 * * * *"`

	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	OpenAPIValidation bool   `env:"OPENAPI_VALIDATION" envDefault:"true"`
}

// DSN renders the connection string for gorm's postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
