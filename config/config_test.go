package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")

	v := viper.New()
	setDefaults(v)

	conf, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", conf.Environment)
	assert.Equal(t, "8081", conf.Port)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, "local", conf.Media.Backend)
	assert.Equal(t, 10, conf.Media.MaxUploadMB)
	assert.Equal(t, 5*time.Minute, conf.Redis.TTL)
	assert.False(t, conf.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_DSN", "user:pass@tcp(db:3306)/store?parseTime=True")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.com/media/")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_ADDR", "redis:6379")

	conf, err := Load()
	require.NoError(t, err)

	assert.True(t, conf.IsProduction())
	assert.Equal(t, "mysql", conf.Database.Driver)
	assert.Equal(t, "user:pass@tcp(db:3306)/store?parseTime=True", conf.Database.DSN)
	assert.Equal(t, "https://cdn.example.com/media", conf.Media.BaseURL)
	assert.Equal(t, 30*time.Second, conf.Redis.TTL)
	assert.Equal(t, "redis:6379", conf.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":  {"DB_DRIVER": "oracle"},
		"backend": {"MEDIA_BACKEND": "s3"},
		"ttl":     {"CACHE_TTL": "soon"},
		"upload":  {"MAX_UPLOAD_MB": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
