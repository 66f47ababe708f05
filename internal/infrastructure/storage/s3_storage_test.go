package storage

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "erp-attachments",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
		{"endpoint without host", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "missing host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewS3ObjectStorage(nil)
	assert.EqualError(t, err, "storage configuration is required")
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	cfg := testStorageConfig()
	cfg.Endpoint = ""

	s, err := NewS3ObjectStorage(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "erp-attachments", s.Bucket())
	assert.Equal(t, defaultPresign, s.presignExpiration)

	s, err = NewS3ObjectStorage(testStorageConfig(), WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.presignExpiration)
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", false, defaultEndpoint},
		{"minio:9000", false, "http://minio:9000"},
		{"s3.example.com", true, "https://s3.example.com"},
		{"https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tt := range tests {
		got, err := resolveEndpoint(tt.endpoint, tt.useSSL)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()
	key := "messaging/tenant/conv/obj/quote.pdf"

	uploadURL, expiresAt, err := s.GenerateUploadURL(ctx, key, "application/pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, uploadURL, "localhost:9000/erp-attachments/")
	assert.Contains(t, uploadURL, "X-Amz-Expires=300")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	downloadURL, _, err := s.GenerateDownloadURL(ctx, key, 0)
	require.NoError(t, err)
	u, err := url.Parse(downloadURL)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, `attachment; filename="quote.pdf"`, u.Query().Get("response-content-disposition"))
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateDownloadURL(ctx, "", 0)
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrEmptyKey)
	assert.ErrorIs(t, s.Upload(ctx, "", []byte("x"), "text/plain"), ErrEmptyKey)
	exists, err := s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.False(t, exists)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(errors.New("api error NotFound: Not Found")))
	assert.False(t, isNotFound(errors.New("api error AccessDenied")))
}

func TestFileNameOf(t *testing.T) {
	assert.Equal(t, "a.png", fileNameOf("messaging/t/c/id/a.png"))
	assert.Equal(t, "plain", fileNameOf("plain"))
}

// newLiveStorage connects to the S3-compatible endpoint in ERP_TEST_S3_ENDPOINT
func newLiveStorage(t *testing.T) *S3ObjectStorage {
	t.Helper()
	endpoint := os.Getenv("ERP_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("ERP_TEST_S3_ENDPOINT not set")
	}
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:       "erp-test-" + strings.ToLower(uuid.NewString()[:8]),
		AccessKey:    os.Getenv("ERP_TEST_S3_ACCESS_KEY"),
		SecretKey:    os.Getenv("ERP_TEST_S3_SECRET_KEY"),
		Endpoint:     endpoint,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(context.Background()))
	require.NoError(t, s.EnsureBucket(context.Background()))
	return s
}

func TestS3ObjectStorage_Live(t *testing.T) {
	s := newLiveStorage(t)
	ctx := context.Background()
	key := "messaging/live/" + uuid.NewString() + "/note.txt"

	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Upload(ctx, key, []byte("hello"), "text/plain"))
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.DeleteObject(ctx, key))
	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
