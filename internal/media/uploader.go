// Package media stores uploaded bytes and returns a public URL for them.
package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Uploader accepts a byte buffer and returns a publicly fetchable URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, body []byte, contentType string) (string, error)
}

// ObjectPutter is the subset of the S3 client the uploader uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes objects to a single bucket.
type S3Uploader struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewS3Uploader builds an uploader from the default AWS credential chain.
func NewS3Uploader(ctx context.Context, region, bucket, publicBaseURL string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3UploaderWithClient(s3.NewFromConfig(cfg), region, bucket, publicBaseURL), nil
}

// NewS3UploaderWithClient wires an existing client.
func NewS3UploaderWithClient(client ObjectPutter, region, bucket, publicBaseURL string) *S3Uploader {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Upload stores body under folder/<uuid>_<unix-millis><ext>.
func (u *S3Uploader) Upload(ctx context.Context, folder string, body []byte, contentType string) (string, error) {
	if len(body) == 0 {
		return "", models.NewValidationError("empty upload")
	}
	key := u.objectKey(folder, contentType)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}

func (u *S3Uploader) objectKey(folder, contentType string) string {
	ext := ""
	base, _, _ := strings.Cut(contentType, ";")
	if m := mimetype.Lookup(strings.TrimSpace(base)); m != nil {
		ext = m.Extension()
	}
	name := fmt.Sprintf("%s_%d%s", uuid.NewString(), u.now().UnixMilli(), ext)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
