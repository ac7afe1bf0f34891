package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrInvalidConfig  = errors.New("storage.errors.invalid_config")
	ErrDisabled       = errors.New("storage.errors.archiver_disabled")
	ErrFetchFailed    = errors.New("storage.errors.fetch_failed")
	ErrUploadFailed   = errors.New("storage.errors.upload_failed")
	ErrObjectTooLarge = errors.New("storage.errors.object_too_large")
)

// Thumbnails are 1280x720 JPEGs, normally well under a megabyte.
const maxObjectSize = 10 << 20

// Config holds bucket settings. An empty bucket disables archiving.
type Config struct {
	Bucket         string        `env:"S3_BUCKET"`
	Region         string        `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"S3_SECRET_KEY"`
	Endpoint       string        `env:"S3_ENDPOINT"`
	BaseURL        string        `env:"S3_BASE_URL"`
	ForcePathStyle bool          `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	FetchTimeout   time.Duration `env:"S3_FETCH_TIMEOUT" envDefault:"30s"`
}

// S3Client is the slice of the S3 API the archiver uses.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver copies generated images into the bucket.
type Archiver struct {
	client  S3Client
	httpc   *http.Client
	cfg     Config
	enabled bool
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithS3Client injects a pre-built client, mainly for tests.
func WithS3Client(client S3Client) Option {
	return func(a *Archiver) {
		if client != nil {
			a.client = client
		}
	}
}

// WithHTTPClient overrides the client used to fetch the source image.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Archiver) {
		if c != nil {
			a.httpc = c
		}
	}
}

// NewArchiver builds an Archiver from config. With no bucket configured it
// returns a disabled archiver rather than an error so the feature stays
// optional.
func NewArchiver(ctx context.Context, cfg Config, opts ...Option) (*Archiver, error) {
	a := &Archiver{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.FetchTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.Bucket == "" {
		return a, nil
	}
	a.enabled = true

	if a.client == nil {
		awsOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}

		a.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}
	return a, nil
}

// Enabled reports whether a bucket is configured.
func (a *Archiver) Enabled() bool { return a.enabled }

// ArchiveThumbnail downloads the image at srcURL and stores it under the
// user's prefix, returning the public URL of the stored copy.
func (a *Archiver) ArchiveThumbnail(ctx context.Context, userID uuid.UUID, srcURL string) (string, error) {
	if !a.enabled {
		return "", ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, err)
	}
	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: source returned status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectSize+1))
	if err != nil {
		return "", errors.Join(ErrFetchFailed, err)
	}
	if len(body) > maxObjectSize {
		return "", ErrObjectTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("thumbnails/%s/%s.jpg", userID, uuid.NewString())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Join(ErrUploadFailed, err)
	}

	return a.publicURL(key), nil
}

func (a *Archiver) publicURL(key string) string {
	if a.cfg.BaseURL != "" {
		return strings.TrimSuffix(a.cfg.BaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.cfg.Bucket, a.cfg.Region, key)
}
