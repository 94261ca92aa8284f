package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
global:
  mode: lambda
  s3:
    upload:
      enabled: true
      bucketName: webhook-archive
forwarder:
  timeout: 5s
notifier:
  provider: ses
  recipients: "ops@example.com dev@example.com"
  sender: relay@example.com
lambda:
  handler: forward
`), 0o600))

	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.True(t, config.Global.S3.Upload.Enabled)
	assert.Equal(t, "webhook-archive", config.Global.S3.Upload.BucketName)
	assert.Equal(t, 5*time.Second, config.Forwarder.Timeout)
	assert.Equal(t, "ses", config.Notifier.Provider)
	assert.Equal(t, "ops@example.com dev@example.com", config.Notifier.Recipients)
	assert.Equal(t, config.HandlerForward, config.Lambda.Handler)

	// unset values fall back to defaults
	assert.Equal(t, "Webhook Notification", config.Notifier.Subject)
	assert.Equal(t, uint(587), config.Notifier.SMTP.Port)
	assert.Equal(t, "api-gateway-v2", config.Lambda.PayloadType)
	assert.Equal(t, []string{"sp_full_hd/m3u8", "q_auto/mp4"}, config.Media.Eager)
	assert.Equal(t, "/notify", config.Service.NotifyPath)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("global: [unterminated"), 0o600))

	testCases := []struct {
		Name        string
		Path        string
		ExpectError bool
	}{
		{Name: "empty_path"},
		{Name: "missing_file", Path: filepath.Join(dir, "missing.yaml")},
		{Name: "directory", Path: dir, ExpectError: true},
		{Name: "invalid_yaml", Path: invalid, ExpectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := config.LoadFromFile(tc.Path)
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
