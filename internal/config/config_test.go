package config

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/sethvargo/go-envconfig"
)

func TestFromLookuperDefaults(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN":         "host=localhost dbname=itam",
		"JWT_SECRET":     "secret",
		"SESSION_SECRET": "session",
	}))
	assert.Equal(t, err, nil)

	assert.Equal(t, cfg.ServerPort, "8080")
	assert.Equal(t, cfg.TokenTTL, 192*time.Hour)
	assert.Equal(t, cfg.ImportMaxBytes, int64(5<<20))
	assert.Equal(t, cfg.AvatarMaxBytes, int64(2<<20))
	assert.Equal(t, cfg.S3.Enabled(), false)
	assert.Equal(t, cfg.SharedIPCategories[1], "CCTV")
	assert.Equal(t, cfg.SharedIPCategories[7], "ACCESS POINT")
}

func TestFromLookuperRequired(t *testing.T) {
	_, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN": "host=localhost dbname=itam",
	}))
	assert.NotEqual(t, err, nil)
}

func TestFromLookuperS3(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN":               "dsn",
		"JWT_SECRET":           "secret",
		"SESSION_SECRET":       "session",
		"S3_BUCKET":            "avatars",
		"S3_ENDPOINT":          "http://minio:9000",
		"SHARED_IP_CATEGORIES": "CCTV, Router",
	}))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.S3.Enabled(), true)
	assert.Equal(t, cfg.S3.Endpoint, "http://minio:9000")
	assert.Equal(t, cfg.SharedIPCategories, []string{"CCTV", "Router"})
}
