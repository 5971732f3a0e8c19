package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// MinioConfig describes the optional bucket finished sprites are published to.
type MinioConfig struct {
	Endpoint string `env:"MINIO_ENDPOINT"`
	Username string `env:"MINIO_USERNAME"`
	Password string `env:"MINIO_PASSWORD"`
	Bucket   string `env:"MINIO_BUCKET, default=audiosprites"`
	Prefix   string `env:"MINIO_PREFIX"`
	Secure   bool   `env:"MINIO_SECURE"`
}

func NewMinioConfigFromEnv() (*MinioConfig, error) {
	var cfg MinioConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Enabled reports whether enough of the config is present to reach a bucket.
func (c *MinioConfig) Enabled() bool {
	return c.Endpoint != "" && c.Username != "" && c.Password != ""
}
