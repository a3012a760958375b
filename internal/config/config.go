package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ITyukz11/payops/pkg/database"
	"github.com/ITyukz11/payops/pkg/httpclient"
	"github.com/ITyukz11/payops/pkg/mq"
	"github.com/ITyukz11/payops/pkg/qbet"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PAYOPS"

type Config struct {
	API          API               `mapstructure:"api"`
	Database     database.Config   `mapstructure:"database"`
	RabbitMQ     mq.Config         `mapstructure:"rabbitmq"`
	Qbet         qbet.Config       `mapstructure:"qbet"`
	HTTPClient   httpclient.Config `mapstructure:"http_client"`
	Auth         Auth              `mapstructure:"auth"`
	Worker       Worker            `mapstructure:"worker"`
	Reconcile    Reconcile         `mapstructure:"reconcile"`
	Notification Notification      `mapstructure:"notification"`
}

type API struct {
	Port        string `mapstructure:"port"`
	ServiceName string `mapstructure:"service_name"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Worker sizes the in-process pool that runs best-effort side effects.
type Worker struct {
	Size        int           `mapstructure:"size"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
}

type Reconcile struct {
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batch_size"`
	RetryFailed bool          `mapstructure:"retry_failed"`
	Queue       string        `mapstructure:"queue"`
}

type Notification struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	Queue     string        `mapstructure:"queue"`
}

func Load() (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.service_name", "payops")
	v.SetDefault("database.driver", database.DriverMySQL)
	v.SetDefault("database.password", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.app_id", "payops")
	v.SetDefault("qbet.api_key", "")
	v.SetDefault("qbet.timeout", 15*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("http_client.timeout", 15*time.Second)
	v.SetDefault("worker.size", 16)
	v.SetDefault("worker.task_timeout", 10*time.Second)
	v.SetDefault("reconcile.interval", time.Minute)
	v.SetDefault("reconcile.batch_size", 100)
	v.SetDefault("reconcile.retry_failed", false)
	v.SetDefault("reconcile.queue", "payops.ledger.retry")
	v.SetDefault("notification.interval", 2*time.Second)
	v.SetDefault("notification.batch_size", 200)
	v.SetDefault("notification.queue", "payops.notifications")
}
