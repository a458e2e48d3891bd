package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

const (
	StorageDriverMinIO = "minio"
	StorageDriverLocal = "local"
)

type Config struct {
	Env     string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Storage StorageConfig `yaml:"storage"`
	MinIO   MinIOConfig   `yaml:"minio"`
	Media   MediaConfig   `yaml:"media"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Worker  WorkerConfig  `yaml:"worker"`
	Retry   RetryConfig   `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"primegames"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

// StorageConfig selects the blob store. LocalRoot and LocalURLPrefix are used
// by the local driver only.
type StorageConfig struct {
	Driver         string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"minio"`
	LocalRoot      string `yaml:"local_root" env:"STORAGE_LOCAL_ROOT" env-default:"./wwwroot/uploads"`
	LocalURLPrefix string `yaml:"local_url_prefix" env:"STORAGE_LOCAL_URL_PREFIX" env-default:"/uploads"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	Region    string `yaml:"region" env:"MINIO_REGION"`
	// PublicURL overrides the endpoint when building object URLs, e.g. a CDN host.
	PublicURL string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
}

type MediaConfig struct {
	Container         string   `yaml:"container" env:"MEDIA_CONTAINER" env-default:"thumbnail-images"`
	MaxBytes          int64    `yaml:"max_bytes" env:"MEDIA_MAX_BYTES" env-default:"1048576"`
	MaxWidth          int      `yaml:"max_width" env:"MEDIA_MAX_WIDTH" env-default:"1920"`
	MaxHeight         int      `yaml:"max_height" env:"MEDIA_MAX_HEIGHT" env-default:"1080"`
	HardCapBytes      int64    `yaml:"hard_cap_bytes" env:"MEDIA_HARD_CAP_BYTES" env-default:"5242880"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types" env:"MEDIA_ALLOWED_MIME_TYPES" env-separator:"," env-default:"image/jpeg,image/jpg,image/png,image/webp"`
	AllowedExtensions []string `yaml:"allowed_extensions" env:"MEDIA_ALLOWED_EXTENSIONS" env-separator:"," env-default:".jpg,.jpeg,.png,.webp"`
	// Containers lists the extra containers clients may upload into; Container is always allowed.
	Containers []string `yaml:"containers" env:"MEDIA_CONTAINERS" env-separator:","`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	OrphanTopic string   `yaml:"orphan_topic" env:"KAFKA_ORPHAN_TOPIC" env-default:"media-orphans"`
	GroupID     string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"media-orphan-sweeper"`
}

type WorkerConfig struct {
	Concurrency  int           `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"2"`
	RequeueDelay time.Duration `yaml:"requeue_delay" env:"WORKER_REQUEUE_DELAY" env-default:"30s"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"200ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads the YAML file named by CONFIG_PATH, falling back to the
// environment alone when the variable is unset.
func MustLoad() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverMinIO, StorageDriverLocal:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Media.MaxBytes <= 0 || c.Media.MaxWidth <= 0 || c.Media.MaxHeight <= 0 {
		return fmt.Errorf("media budget must be positive")
	}

	if c.Media.HardCapBytes <= 0 {
		return fmt.Errorf("media hard cap must be positive")
	}

	if c.Retry.Attempts < 1 {
		c.Retry.Attempts = 1
	}

	if c.Worker.Concurrency < 1 {
		c.Worker.Concurrency = 1
	}

	if c.Worker.RequeueDelay < 0 {
		c.Worker.RequeueDelay = 0
	}

	return nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}

// UploadContainers returns the default container followed by the extra ones,
// without duplicates.
func (c *Config) UploadContainers() []string {
	seen := map[string]bool{c.Media.Container: true}
	out := []string{c.Media.Container}
	for _, name := range c.Media.Containers {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (c *Config) OrphanQueueEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
