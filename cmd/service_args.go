package cmd

import (
	"time"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack mode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
		Env:         helpers.Ptr("PORT"),
	},
	&config.Service.ForwardPath: {
		Name:        "service-forward-path",
		Description: "The path of the forward handler",
	},
	&config.Service.NotifyPath: {
		Name:        "service-notify-path",
		Description: "The path of the notify handler",
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
	},
}

var svcEnvMapUint = map[*uint]boundEnvVar[uint]{
	&config.Service.MaxBodyBytes: {
		Name:        "service-max-body-bytes",
		Description: "The maximum size of an inbound request body in bytes (0 disables the limit)",
	},
}
