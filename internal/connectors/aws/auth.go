// Package aws provides shared AWS configuration and authentication helpers.
package aws

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

var roleARNRe = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/.+$`)

// ValidateRoleARN checks that the ARN looks like a valid IAM role ARN.
func ValidateRoleARN(arn string) error {
	if !roleARNRe.MatchString(arn) {
		return fmt.Errorf("aws auth: invalid IAM role ARN: %q", arn)
	}
	return nil
}

// NewAWSConfig creates an aws.Config with the given region, optional profile,
// and optional role ARN to assume through STS before publishing.
func NewAWSConfig(ctx context.Context, region, profile, roleARN string) (aws.Config, error) {
	if roleARN != "" {
		if err := ValidateRoleARN(roleARN); err != nil {
			return aws.Config{}, err
		}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws auth: load config: %w", err)
	}

	if roleARN != "" {
		stsClient := sts.NewFromConfig(cfg)
		cfg.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(stsClient, roleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = "pairdiff"
			},
		))
	}

	return cfg, nil
}
