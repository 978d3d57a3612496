package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "flag.json", map[string]any{
		"endpoint_addr_http":   "www.example:9000",
		"database_dsn":         "postgres://example/vault",
		"identity_base_url":    "https://idp.example",
		"identity_service_key": "svc",
		"identity_jwt_secret":  "my_secret_key",
		"s3_root_user":         "user",
		"s3_root_password":     "password",
		"s3_bucket":            "bucket",
		"s3_region":            "region",
		"s3_base_endpoint":     "base_endpoint",
		"shutdown_timeout":     "15s",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	parseJson(cfg)

	assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://example/vault", cfg.DatabaseDSN)
	assert.Equal(t, "https://idp.example", cfg.IdentityBaseURL)
	assert.Equal(t, "svc", cfg.IdentityServiceKey)
	assert.Equal(t, "my_secret_key", cfg.IdentityJWTSecret)
	assert.Equal(t, "user", cfg.S3RootUser)
	assert.Equal(t, "password", cfg.S3RootPassword)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, "region", cfg.S3Region)
	assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func Test_parseJson_PartialFileKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"database_dsn": "postgres://example/other",
	})

	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "postgres://example/other", cfg.DatabaseDSN)
	assert.Equal(t, ":3175", cfg.EndpointAddrHTTP)
	assert.Equal(t, "filevault", cfg.S3Bucket)
}

func Test_parseJson_NoFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":3175", cfg.EndpointAddrHTTP)
}
