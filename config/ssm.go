package config

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/errs"
)

// ParameterSource is the part of the SSM client used to read a parameter tree.
type ParameterSource interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMSource builds an SSM client from the default AWS credential chain.
func NewSSMSource(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// MergeParameters copies every parameter under prefix into config. The key is the last
// path segment, so /portfolio/prod/SESSION_SECRET becomes SESSION_SECRET. Values already
// present in the environment win.
func MergeParameters(ctx context.Context, source ParameterSource, prefix string, config map[string]string) error {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	merged := 0
	for {
		out, err := source.GetParametersByPath(ctx, input)
		if err != nil {
			return errs.NewConfigError("ssm:"+prefix, err)
		}

		for _, p := range out.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if key == "" || key == "/" || key == "." {
				continue
			}
			if existing, ok := config[key]; ok && strings.TrimSpace(existing) != "" {
				continue
			}
			config[key] = aws.ToString(p.Value)
			merged++
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	log.Info().Str("prefix", prefix).Int("parameters", merged).Msg("Loaded configuration from SSM")
	return nil
}
