package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/media"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdUpload() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Submit the configured video for eager transformation and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", "upload")
			client, err := media.NewClientFromConfig(media.Config{
				URL:       config.Media.URL,
				CloudName: config.Media.CloudName,
				APIKey:    config.Media.APIKey,
				APISecret: config.Media.APISecret,
				BaseURL:   config.Media.BaseURL,
			}, media.WithLogger(logger.With("component", "media")))
			if err != nil {
				return err
			}
			return runUpload(cmd.Context(), client, cmd.OutOrStdout())
		},
	}

	bindEnvMap(cmd, mediaEnvMapString)
	bindEnvMap(cmd, mediaEnvMapStringSlice)

	return cmd
}

func runUpload(ctx context.Context, client *media.Client, out io.Writer) error {
	if config.Media.Webhook == "" {
		logger.Warn("no webhook configured, transform completion will not be notified")
	}

	result, err := client.Upload(ctx, media.EagerUploadRequest{
		File:                 config.Media.Video,
		ResourceType:         "video",
		Type:                 "upload",
		Eager:                config.Media.Eager,
		EagerAsync:           true,
		EagerNotificationURL: config.Media.Webhook,
	})
	if err != nil {
		logger.Error("upload failed", slog.Any("error", err))
		return err
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode upload result")
	}
	logger.Info("upload queued", slog.String("publicID", result.PublicID))
	_, err = fmt.Fprintln(out, string(pretty))
	return err
}
