// Package storage stores uploaded images in a public S3-compatible bucket. Supabase Storage exposes
// such an endpoint at {SUPABASE_URL}/storage/v1/s3 and serves public objects without signing.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
)

const DefaultBucket = "portfolio"

// ObjectPutter is the part of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Bucket struct {
	client        ObjectPutter
	name          string
	publicBaseURL string
	logger        zerolog.Logger
}

var _ backend.Files = (*Bucket)(nil)

// NewBucket uploads through client and resolves public URLs as {publicBaseURL}/{path}.
func NewBucket(client ObjectPutter, name, publicBaseURL string) *Bucket {
	return &Bucket{
		client:        client,
		name:          name,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        log.With().Str("service", "storage").Str("bucket", name).Logger(),
	}
}

// NewSupabaseBucket configures an S3 client against the project's storage endpoint.
func NewSupabaseBucket(ctx context.Context, c map[string]string) (*Bucket, error) {
	if err := config.Require(c, "SUPABASE_URL", "STORAGE_ACCESS_KEY_ID", "STORAGE_SECRET_ACCESS_KEY"); err != nil {
		return nil, err
	}

	projectURL := strings.TrimRight(config.GetString(c, "SUPABASE_URL", ""), "/")
	if _, err := url.ParseRequestURI(projectURL); err != nil {
		return nil, errs.NewConfigError("SUPABASE_URL", err)
	}
	name := config.GetString(c, "STORAGE_BUCKET", DefaultBucket)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.GetString(c, "STORAGE_REGION", "us-east-1")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.GetString(c, "STORAGE_ACCESS_KEY_ID", ""),
			config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, errs.NewConfigError("storage", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(projectURL + "/storage/v1/s3")
		o.UsePathStyle = true
	})

	return NewBucket(client, name, PublicBaseURL(projectURL, name)), nil
}

// PublicBaseURL is where Supabase serves objects of a public bucket.
func PublicBaseURL(projectURL, bucket string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s", strings.TrimRight(projectURL, "/"), bucket)
}

func (b *Bucket) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return errs.NewStorageError(b.name, path, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		b.logger.Error().Err(err).Str("key", path).Msg("upload failed")
		return errs.NewStorageError(b.name, path, err)
	}

	b.logger.Info().Str("key", path).Int("bytes", len(data)).Msg("uploaded object")
	return nil
}

func (b *Bucket) PublicURL(path string) string {
	return b.publicBaseURL + "/" + strings.TrimLeft(path, "/")
}

func (b *Bucket) Bucket() string {
	return b.name
}
