package helpers_test

import (
	"testing"
	"time"

	"github.com/isometry/media-webhook-relay/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtr(t *testing.T) {
	env := helpers.Ptr("SENDGRID_API_KEY")
	require.NotNil(t, env)
	assert.Equal(t, "SENDGRID_API_KEY", *env)

	timeout := helpers.Ptr(30 * time.Second)
	require.NotNil(t, timeout)
	assert.Equal(t, 30*time.Second, *timeout)

	var unset any
	assert.Nil(t, helpers.Ptr(unset))
}
