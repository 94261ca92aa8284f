package cmd

import (
	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/isometry/media-webhook-relay/internal/helpers"
)

var lambdaEnvMapString = map[*string]boundEnvVar[string]{
	&config.Lambda.PayloadType: {
		Name:        "lambda-payload-type",
		Description: "The payload type to expect when running in Lambda mode. Supported values are 'api-gateway-v1', 'api-gateway-v2' and 'lambda-url'",
	},
	&config.Lambda.Handler: {
		Name:        "handler",
		Description: "The handler served by the Lambda function. Supported values are 'forward' and 'notify'",
		Env:         helpers.Ptr("LAMBDA_HANDLER"),
	},
}
