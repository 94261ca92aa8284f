// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

// Runtime modes accepted by the root command.
const (
	ModeService = "service"
	ModeLambda  = "lambda"
)

// Handler names.
const (
	HandlerForward = "forward"
	HandlerNotify  = "notify"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Forwarder is a struct that contains the configuration for the forward handler.
	Forwarder forwarder
	// Notifier is a struct that contains the configuration for the notify handler.
	Notifier notifier
	// Media is a struct that contains the configuration for the media provider upload trigger.
	Media media
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// EnvFile is an optional dotenv file loaded before flags are evaluated.
	EnvFile string `yaml:"envFile,omitempty" default:".env"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// S3 is a struct that contains the configuration for S3.
	S3 struct {
		Upload struct {
			BucketName string `yaml:"bucketName,omitempty"`
			Enabled    bool   `yaml:"enabled,omitempty"`
		} `yaml:"upload,omitempty"`
	} `yaml:"s3,omitempty"`
}

type forwarder struct {
	// Timeout bounds the outbound GET. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type notifier struct {
	// Provider selects the email backend: sendgrid, ses or smtp.
	Provider string `yaml:"provider,omitempty" default:"sendgrid"`
	// Recipients is a space-separated list of recipient addresses.
	Recipients string `yaml:"recipients,omitempty"`
	// Sender is the verified sender address.
	Sender string `yaml:"sender,omitempty"`
	// Subject is the subject of every notification email.
	Subject string `yaml:"subject,omitempty" default:"Webhook Notification"`
	SendGrid struct {
		APIKey  string `yaml:"apiKey,omitempty"`
		BaseURL string `yaml:"baseURL,omitempty" default:"https://api.sendgrid.com"`
		// KeySource selects where the API key comes from: env or ssm.
		KeySource string `yaml:"keySource,omitempty" default:"env"`
		// SSMKey is the SSM parameter holding the API key when KeySource is ssm.
		SSMKey string `yaml:"ssmKey,omitempty"`
	} `yaml:"sendgrid,omitempty"`
	SMTP struct {
		Host          string `yaml:"host,omitempty"`
		Port          uint   `yaml:"port,omitempty" default:"587"`
		User          string `yaml:"user,omitempty"`
		Password      string `yaml:"password,omitempty"`
		TLSSkipVerify bool   `yaml:"tlsSkipVerify,omitempty"`
	} `yaml:"smtp,omitempty"`
}

type media struct {
	// URL is a CLOUDINARY_URL style connection string: cloudinary://<key>:<secret>@<cloud>.
	URL       string `yaml:"url,omitempty"`
	CloudName string `yaml:"cloudName,omitempty"`
	APIKey    string `yaml:"apiKey,omitempty"`
	APISecret string `yaml:"apiSecret,omitempty"`
	BaseURL   string `yaml:"baseURL,omitempty" default:"https://api.cloudinary.com"`
	// Video is the remote video submitted for eager processing.
	Video string `yaml:"video,omitempty" default:"https://res.cloudinary.com/cloudinary-training/video/upload/v1626130641/mountain.mov"`
	// Webhook is the notification URL called once the eager transforms complete.
	Webhook string `yaml:"webhook,omitempty"`
	// Eager lists the derived encodings requested for the video.
	Eager []string `yaml:"eager,omitempty" default:"[\"sp_full_hd/m3u8\", \"q_auto/mp4\"]"`
}

type service struct {
	ForwardPath string        `yaml:"forwardPath,omitempty" default:"/forward"`
	NotifyPath  string        `yaml:"notifyPath,omitempty" default:"/notify"`
	Addr        string        `yaml:"addr,omitempty"`
	Port        string        `yaml:"port,omitempty" default:"8080"`
	Timeout     time.Duration `yaml:"timeout,omitempty" default:"30s"`

	// MaxBodyBytes caps inbound request bodies.
	MaxBodyBytes uint `yaml:"maxBodyBytes,omitempty" default:"1048576"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
	Handler     string `yaml:"handler,omitempty" default:"notify"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Forwarder),
		defaults.Set(&Notifier),
		defaults.Set(&Media),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global    global    `yaml:"global,omitempty"`
		Forwarder forwarder `yaml:"forwarder,omitempty"`
		Notifier  notifier  `yaml:"notifier,omitempty"`
		Media     media     `yaml:"media,omitempty"`
		Service   service   `yaml:"service,omitempty"`
		Lambda    lambda    `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Forwarder = a.Forwarder
	Notifier = a.Notifier
	Media = a.Media
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
