package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
notifier:
  subject: From custom file
  recipients: ops@example.com
forwarder:
  timeout: 3s
`), 0o600))
	return path
}

func TestNew_ConfigFile(t *testing.T) {
	testCases := []struct {
		Name            string
		Args            []string
		Env             map[string]string
		ExpectedSubject string
		ExpectedTo      string
	}{
		{
			Name:            "file_values",
			ExpectedSubject: "From custom file",
			ExpectedTo:      "ops@example.com",
		},
		{
			Name:            "flag_wins_over_file",
			Args:            []string{"--notify-subject", "From flag"},
			ExpectedSubject: "From flag",
			ExpectedTo:      "ops@example.com",
		},
		{
			Name:            "env_wins_over_file",
			Env:             map[string]string{"TO_RECIPIENTS": "dev@example.com"},
			ExpectedSubject: "From custom file",
			ExpectedTo:      "dev@example.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Setenv("ENV_FILE", "")
			for k, v := range tc.Env {
				t.Setenv(k, v)
			}
			t.Cleanup(func() {
				config.Notifier.Subject = ""
				config.Notifier.Recipients = ""
				config.Forwarder.Timeout = 0
				config.Global.Mode = ""
			})

			cmd := New()
			// an unknown mode stops after the configuration is loaded
			cmd.SetArgs(append([]string{"--config", writeConfigFile(t), "--mode", "none"}, tc.Args...))
			err := cmd.Execute()
			assert.ErrorContains(t, err, "invalid mode: none")

			assert.Equal(t, tc.ExpectedSubject, config.Notifier.Subject)
			assert.Equal(t, tc.ExpectedTo, config.Notifier.Recipients)
			assert.Equal(t, "3s", config.Forwarder.Timeout.String())
			// unset values keep their defaults
			assert.Equal(t, "sendgrid", config.Notifier.Provider)
		})
	}
}
