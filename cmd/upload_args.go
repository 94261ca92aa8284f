package cmd

import (
	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/helpers"
)

var mediaEnvMapString = map[*string]boundEnvVar[string]{
	&config.Media.URL: {
		Name:        "media-url",
		Description: "The media provider connection URL: cloudinary://<api-key>:<api-secret>@<cloud-name>",
		Env:         helpers.Ptr("CLOUDINARY_URL"),
		Hidden:      true,
	},
	&config.Media.CloudName: {
		Name:        "media-cloud-name",
		Description: "The media provider cloud name",
	},
	&config.Media.APIKey: {
		Name:        "media-api-key",
		Description: "The media provider API key",
	},
	&config.Media.APISecret: {
		Name:        "media-api-secret",
		Description: "The media provider API secret",
		Hidden:      true,
	},
	&config.Media.BaseURL: {
		Name:        "media-base-url",
		Description: "The media provider upload API base URL",
	},
	&config.Media.Video: {
		Name:        "media-video",
		Description: "The remote video submitted for eager transformation",
	},
	&config.Media.Webhook: {
		Name:        "media-webhook",
		Description: "The notification URL called once the eager transformations complete",
		Env:         helpers.Ptr("NOTIFICATION_URL"),
	},
}

var mediaEnvMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Media.Eager: {
		Name:        "media-eager",
		Description: "The eager transformations requested for the video",
	},
}
