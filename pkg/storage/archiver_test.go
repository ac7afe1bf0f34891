package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/storage"
)

type fakeS3 struct {
	bucket string
	key    string
	body   []byte
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket = *params.Bucket
	f.key = *params.Key
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveThumbnail(t *testing.T) {
	t.Parallel()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer src.Close()

	fake := &fakeS3{}
	archiver, err := storage.NewArchiver(context.Background(), storage.Config{
		Bucket:  "lumigen-thumbnails",
		Region:  "us-east-1",
		BaseURL: "https://cdn.lumigen.app",
	}, storage.WithS3Client(fake))
	require.NoError(t, err)
	require.True(t, archiver.Enabled())

	userID := uuid.New()
	url, err := archiver.ArchiveThumbnail(context.Background(), userID, src.URL+"/prompt/cat")
	require.NoError(t, err)

	assert.Equal(t, "lumigen-thumbnails", fake.bucket)
	assert.Contains(t, fake.key, "thumbnails/"+userID.String()+"/")
	assert.Equal(t, []byte("jpeg-bytes"), fake.body)
	assert.Equal(t, "https://cdn.lumigen.app/"+fake.key, url)
}

func TestArchiveThumbnailSourceError(t *testing.T) {
	t.Parallel()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer src.Close()

	archiver, err := storage.NewArchiver(context.Background(), storage.Config{
		Bucket: "bucket",
		Region: "us-east-1",
	}, storage.WithS3Client(&fakeS3{}))
	require.NoError(t, err)

	_, err = archiver.ArchiveThumbnail(context.Background(), uuid.New(), src.URL)
	assert.ErrorIs(t, err, storage.ErrFetchFailed)
}

func TestArchiverDisabled(t *testing.T) {
	t.Parallel()

	archiver, err := storage.NewArchiver(context.Background(), storage.Config{})
	require.NoError(t, err)
	assert.False(t, archiver.Enabled())

	_, err = archiver.ArchiveThumbnail(context.Background(), uuid.New(), "https://example.com/x.jpg")
	assert.ErrorIs(t, err, storage.ErrDisabled)
}
