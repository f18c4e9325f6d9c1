// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads finished reports to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// objectPutter is the part of *s3.Client the uploader needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores workbooks in a bucket under a key prefix.
type Uploader struct {
	client objectPutter
	cfg    types.PublishConfig
	log    *zap.Logger
}

// New builds an S3 client from cfg. A custom endpoint switches to
// path-style addressing; static keys are used when both are set, otherwise
// the default AWS credential chain applies.
func New(ctx context.Context, cfg types.PublishConfig, log *zap.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("publishing is not configured: no bucket")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newUploader(client, cfg, log), nil
}

func newUploader(client objectPutter, cfg types.PublishConfig, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{client: client, cfg: cfg, log: log.Named("publish")}
}

// Key returns the object key for a report file name.
func (u *Uploader) Key(name string) string {
	prefix := strings.Trim(u.cfg.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Upload stores data as name and returns the s3:// location.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	key := u.Key(name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(xlsxContentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to bucket %s: %w", key, u.cfg.Bucket, err)
	}

	location := fmt.Sprintf("s3://%s/%s", u.cfg.Bucket, key)
	u.log.Info("report published", zap.String("location", location), zap.Int("bytes", len(data)))
	return location, nil
}
