package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (p *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = in
	data, _ := io.ReadAll(in.Body)
	p.body = string(data)
	if p.err != nil {
		return nil, p.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploadPutsObject(t *testing.T) {
	putter := &recordingPutter{}
	b := NewBucket(putter, "portfolio", PublicBaseURL("https://abc.supabase.co/", "portfolio"))

	require.NoError(t, b.Upload(context.Background(), "project-previews/x.webp", strings.NewReader("img"), "image/webp"))

	assert.Equal(t, "portfolio", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "project-previews/x.webp", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/webp", aws.ToString(putter.input.ContentType))
	assert.EqualValues(t, 3, aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, "img", putter.body)

	assert.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/portfolio/project-previews/x.webp",
		b.PublicURL("project-previews/x.webp"))
}

func TestUploadFailureIsStorageError(t *testing.T) {
	b := NewBucket(&recordingPutter{err: errors.New("NoSuchBucket")}, "portfolio", "https://cdn")

	err := b.Upload(context.Background(), "project-previews/x.png", strings.NewReader("img"), "")
	require.Error(t, err)
	assert.True(t, errs.IsStorageError(err))
}

func TestNewSupabaseBucketRequiresCredentials(t *testing.T) {
	_, err := NewSupabaseBucket(context.Background(), map[string]string{"SUPABASE_URL": "https://abc.supabase.co"})
	assert.True(t, errs.IsConfigError(err))
}
