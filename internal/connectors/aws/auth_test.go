package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoleARN(t *testing.T) {
	t.Parallel()
	tests := []struct {
		arn     string
		wantErr bool
	}{
		{"arn:aws:iam::123456789012:role/MyRole", false},
		{"arn:aws:iam::123456789012:role/path/PairDiffPublisher", false},
		{"arn:aws:iam::12345:role/Short", true},
		{"arn:aws:iam::123456789012:user/NotARole", true},
		{"", true},
		{"not-an-arn", true},
	}

	for _, tt := range tests {
		t.Run(tt.arn, func(t *testing.T) {
			t.Parallel()
			err := ValidateRoleARN(tt.arn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAWSConfig(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("AWS_PROFILE", "")

	cfg, err := NewAWSConfig(t.Context(), "eu-west-1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)

	cfg, err = NewAWSConfig(t.Context(), "eu-west-1", "", "arn:aws:iam::123456789012:role/Publisher")
	require.NoError(t, err)
	_, cached := cfg.Credentials.(*aws.CredentialsCache)
	assert.True(t, cached, "assumed role credentials should be cached")
}

func TestNewAWSConfig_InvalidRole(t *testing.T) {
	t.Parallel()
	_, err := NewAWSConfig(t.Context(), "us-east-1", "", "role/Publisher")
	assert.ErrorContains(t, err, "invalid IAM role ARN")
}
