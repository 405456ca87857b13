// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact uploads compiled resumes to S3-compatible object
// storage and hands out time-limited download URLs.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// ErrDisabled is returned by New when no endpoint or bucket is configured.
var ErrDisabled = errors.New("artifact storage is not configured")

const (
	defaultURLExpiry = time.Hour

	// maxURLExpiry is the longest expiry S3 presigned URLs accept.
	maxURLExpiry = 7 * 24 * time.Hour

	keyPrefix = "resumes"
)

// objectClient is the subset of *minio.Client used here.
type objectClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// Artifact identifies one uploaded file.
type Artifact struct {
	Key string `json:"key"`
	URL string `json:"downloadUrl"`
}

// Uploader writes PDFs to a single bucket.
type Uploader struct {
	client objectClient
	bucket string
	expiry time.Duration
	log    zerolog.Logger
}

// New creates an Uploader backed by a MinIO client with static
// credentials.
func New(cfg types.ArtifactConfig, log zerolog.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object storage client: %w", err)
	}
	return newUploader(client, cfg, log), nil
}

func newUploader(client objectClient, cfg types.ArtifactConfig, log zerolog.Logger) *Uploader {
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	if expiry > maxURLExpiry {
		expiry = maxURLExpiry
	}
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		expiry: expiry,
		log:    log.With().Str("bucket", cfg.Bucket).Logger(),
	}
}

// EnsureBucket creates the bucket when it does not exist.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", u.bucket, err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", u.bucket, err)
	}
	u.log.Info().Msg("created bucket")
	return nil
}

// UploadPDF stores pdf under resumes/<user>/<uuid>.pdf and returns the key
// with a presigned download URL.
func (u *Uploader) UploadPDF(ctx context.Context, userID string, pdf []byte) (Artifact, error) {
	key := ObjectKey(userID, uuid.NewString())

	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return Artifact{}, fmt.Errorf("uploading %s: %w", key, err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", `attachment; filename="resume.pdf"`)
	signed, err := u.client.PresignedGetObject(ctx, u.bucket, key, u.expiry, params)
	if err != nil {
		return Artifact{}, fmt.Errorf("presigning %s: %w", key, err)
	}

	u.log.Debug().Str("key", key).Int("bytes", len(pdf)).Msg("uploaded resume")
	return Artifact{Key: key, URL: signed.String()}, nil
}

// ObjectKey builds the object key for a user's file. Path separators in
// userID are replaced so every key stays under the user's prefix.
func ObjectKey(userID, id string) string {
	user := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(strings.TrimSpace(userID))
	if user == "" {
		user = "anonymous"
	}
	return fmt.Sprintf("%s/%s/%s.pdf", keyPrefix, user, id)
}
