package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
)

// S3ClientConfig holds configuration for S3-compatible storage
type S3ClientConfig struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// Wasabi only, e.g. "s3.ap-southeast-1.wasabisys.com". Derived from Region when empty.
	WasabiEndpoint string
}

// WasabiEndpoint returns the regional Wasabi endpoint.
func WasabiEndpoint(region string) string {
	if region == "" {
		region = "ap-southeast-1"
	}
	return "s3." + region + ".wasabisys.com"
}

// NewS3Client creates an S3 client for AWS or Wasabi.
// Static credentials are used when given, otherwise the default AWS chain applies.
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Provider != S3ProviderWasabi {
		return s3.NewFromConfig(awsCfg), nil
	}

	endpoint := cfg.WasabiEndpoint
	if endpoint == "" {
		endpoint = WasabiEndpoint(cfg.Region)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://" + endpoint)
		o.UsePathStyle = true
	}), nil
}
