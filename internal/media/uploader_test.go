package media

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)

	tests := []struct {
		name        string
		baseURL     string
		folder      string
		contentType string
		wantPrefix  string
		wantExt     string
	}{
		{
			name:        "default bucket url",
			folder:      "posts",
			contentType: "image/jpeg",
			wantPrefix:  "https://media.s3.eu-west-1.amazonaws.com/posts/",
			wantExt:     ".jpg",
		},
		{
			name:        "custom base url",
			baseURL:     "https://cdn.example.com/",
			folder:      "/messages/",
			contentType: "video/mp4",
			wantPrefix:  "https://cdn.example.com/messages/",
			wantExt:     ".mp4",
		},
		{
			name:        "parameters are ignored",
			folder:      "posts",
			contentType: "image/png; charset=binary",
			wantPrefix:  "https://media.s3.eu-west-1.amazonaws.com/posts/",
			wantExt:     ".png",
		},
		{
			name:        "unknown type has no extension",
			folder:      "posts",
			contentType: "application/x-unknown-thing",
			wantPrefix:  "https://media.s3.eu-west-1.amazonaws.com/posts/",
			wantExt:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &fakePutter{}
			u := NewS3UploaderWithClient(putter, "eu-west-1", "media", tt.baseURL)
			u.now = func() time.Time { return fixed }

			url, err := u.Upload(context.Background(), tt.folder, []byte("payload"), tt.contentType)
			require.NoError(t, err)

			pattern := "^" + regexp.QuoteMeta(tt.wantPrefix) + `[0-9a-f-]{36}_1700000000000` + regexp.QuoteMeta(tt.wantExt) + "$"
			assert.Regexp(t, pattern, url)

			require.NotNil(t, putter.input)
			assert.Equal(t, "media", aws.ToString(putter.input.Bucket))
			assert.Equal(t, tt.contentType, aws.ToString(putter.input.ContentType))
			assert.Equal(t, []byte("payload"), putter.body)
		})
	}
}

func TestS3Uploader_UniqueKeys(t *testing.T) {
	u := NewS3UploaderWithClient(&fakePutter{}, "us-east-1", "media", "")

	a, err := u.Upload(context.Background(), "posts", []byte("x"), "image/png")
	require.NoError(t, err)
	b, err := u.Upload(context.Background(), "posts", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestS3Uploader_Errors(t *testing.T) {
	u := NewS3UploaderWithClient(&fakePutter{}, "us-east-1", "media", "")
	_, err := u.Upload(context.Background(), "posts", nil, "image/png")
	assert.ErrorIs(t, err, models.ErrValidation)

	failing := NewS3UploaderWithClient(&fakePutter{err: errors.New("denied")}, "us-east-1", "media", "")
	_, err = failing.Upload(context.Background(), "posts", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "denied")
}
