package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"instareview-reports-go/internal/logger"
)

// LinkExpiry is how long emailed download links stay valid.
const LinkExpiry = 7 * 24 * time.Hour

// Uploader puts rendered reports into object storage and signs download
// links for them.
type Uploader struct {
	client *minio.Client
	bucket string
}

func NewUploader(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Uploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// ObjectKey builds the report's storage key:
// instareview-reports/<companyId>/<YYYY>-<MM>-W<week#>.pdf
func ObjectKey(companyID string, t time.Time) string {
	_, week := t.ISOWeek()
	return fmt.Sprintf("instareview-reports/%s/%04d-%02d-W%d.pdf", companyID, t.Year(), int(t.Month()), week)
}

// Upload stores the PDF under the weekly key and returns that key.
func (u *Uploader) Upload(ctx context.Context, pdf []byte, companyID string, t time.Time, log *logger.Logger) (string, error) {
	key := ObjectKey(companyID, t)
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	log.WithField("key", key).WithField("bucket", u.bucket).Info("report uploaded to object storage")
	return key, nil
}

// PresignedURL signs a time-limited download link for an uploaded report.
func (u *Uploader) PresignedURL(ctx context.Context, key string) (string, error) {
	signed, err := u.client.PresignedGetObject(ctx, u.bucket, key, LinkExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return signed.String(), nil
}
