package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// parameterLister is the slice of the SSM client we use.
type parameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSMParameters overlays parameters stored under c["SSM_PARAMETER_PATH"]
// onto c. A parameter named /portfolio/prod/JWT_SECRET sets JWT_SECRET.
// When the path is unset, c is returned untouched.
func LoadSSMParameters(ctx context.Context, c map[string]string) (map[string]string, error) {
	paramPath := GetString(c, "SSM_PARAMETER_PATH", "")
	if paramPath == "" {
		return c, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region := GetString(c, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return c, fmt.Errorf("load aws config: %w", err)
	}

	return overlayParameters(ctx, ssm.NewFromConfig(awsCfg), paramPath, c)
}

func overlayParameters(ctx context.Context, client parameterLister, paramPath string, c map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(c))
	for k, v := range c {
		out[k] = v
	}

	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(paramPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}
	paginator := ssm.NewGetParametersByPathPaginator(client, input)

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return c, fmt.Errorf("read ssm parameters under %s: %w", paramPath, err)
		}
		for _, p := range page.Parameters {
			name := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
			if name == "" || name == "." || name == "/" {
				continue
			}
			out[name] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", paramPath).Int("count", loaded).Msg("Loaded parameters from SSM")
	return out, nil
}
