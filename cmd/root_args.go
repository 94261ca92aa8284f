package cmd

import (
	"time"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Notifier.Provider: {
		Name:        "notify-provider",
		Description: "The email provider used by the notify handler. Supported values are 'sendgrid', 'ses' and 'smtp'",
	},
	&config.Notifier.Recipients: {
		Name:        "notify-recipients",
		Description: "Space-separated list of notification recipients",
		Env:         helpers.Ptr("TO_RECIPIENTS"),
	},
	&config.Notifier.Sender: {
		Name:        "notify-sender",
		Description: "The verified sender address of notification emails",
		Env:         helpers.Ptr("FROM_VERIFIED_SENDER"),
	},
	&config.Notifier.Subject: {
		Name:        "notify-subject",
		Description: "The subject of notification emails",
	},
	&config.Notifier.SendGrid.APIKey: {
		Name:        "sendgrid-api-key",
		Description: "The SendGrid API key. Prefer the environment variable over the flag",
		Env:         helpers.Ptr("SENDGRID_API_KEY"),
		Hidden:      true,
	},
	&config.Notifier.SendGrid.BaseURL: {
		Name:        "sendgrid-base-url",
		Description: "The SendGrid API base URL",
	},
	&config.Notifier.SendGrid.KeySource: {
		Name:        "sendgrid-key-source",
		Description: "Where the SendGrid API key is read from. Supported values are 'env' and 'ssm'",
	},
	&config.Notifier.SendGrid.SSMKey: {
		Name:        "sendgrid-ssm-key",
		Description: "The SSM parameter holding the SendGrid API key when the key source is 'ssm'",
	},
	&config.Notifier.SMTP.Host: {
		Name:        "smtp-host",
		Description: "The SMTP relay host",
	},
	&config.Notifier.SMTP.User: {
		Name:        "smtp-user",
		Description: "The SMTP relay user",
	},
	&config.Notifier.SMTP.Password: {
		Name:        "smtp-password",
		Description: "The SMTP relay password",
		Hidden:      true,
	},
	&config.Global.S3.Upload.BucketName: {
		Name:        "archive-s3-bucket",
		Description: "The S3 bucket receiving a copy of every notification payload",
		Env:         helpers.Ptr("ARCHIVE_S3_BUCKET"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Global.S3.Upload.Enabled: {
		Name:        "archive-s3",
		Description: "Enable S3 archiving of notification payloads",
		Env:         helpers.Ptr("ARCHIVE_S3"),
	},
	&config.Notifier.SMTP.TLSSkipVerify: {
		Name:        "smtp-tls-skip-verify",
		Description: "Skip TLS certificate verification of the SMTP relay",
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapUint = map[*uint]boundEnvVar[uint]{
	&config.Notifier.SMTP.Port: {
		Name:        "smtp-port",
		Description: "The SMTP relay port",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Forwarder.Timeout: {
		Name:        "forward-timeout",
		Description: "The timeout of the outbound GET issued by the forward handler (0 disables it)",
	},
}
