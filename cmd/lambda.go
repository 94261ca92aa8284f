package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run one handler as an AWS Lambda function",
	}

	// lambdaHTTP is the command for running a handler behind API Gateway or a function URL.
	lambdaHTTP := &cobra.Command{
		Use:  "http",
		RunE: runLambdaHTTP,
	}

	cmd.AddCommand(lambdaHTTP)

	return cmd
}

func runLambdaHTTP(cmd *cobra.Command, _ []string) error {
	logger = logger.With("mode", config.ModeLambda, "handler", config.Lambda.Handler)

	logger.Debug("creating handler...")
	hdl, err := newDependencies(cmd.Context(), logger).handlerByName(config.Lambda.Handler)
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}

	logger.Debug("creating runtime...")
	rt := runtime.NewRuntime(hdl,
		runtime.WithPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime")))

	logger.Info("lambda starting...")
	lambda.StartWithOptions(rt.HandleEvent,
		lambda.WithContext(cmd.Context()))

	return nil
}
