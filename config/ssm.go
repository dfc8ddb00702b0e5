package config

import (
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterFetcher is the subset of the SSM client used to read parameters by path.
type ParameterFetcher interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlaySSM copies every parameter under prefix into config, keyed by the last path segment.
// Values already present in config are overwritten.
func OverlaySSM(ctx context.Context, client ParameterFetcher, config map[string]string, prefix string) (int, error) {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	count := 0
	paginator := ssm.NewGetParametersByPathPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return count, err
		}
		for _, p := range page.Parameters {
			name := path.Base(aws.ToString(p.Name))
			config[name] = aws.ToString(p.Value)
			count++
		}
	}
	return count, nil
}
