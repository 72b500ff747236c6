// Package upload publishes board artifacts (poster PNG, ICS calendars) to an
// S3-compatible bucket (AWS S3 or MinIO).
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pilou73/horaires-shabbat/internal/logging"
)

// Config holds construction parameters. Credentials come from the default
// AWS chain (environment, shared config, instance role).
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	Prefix    string // optional key prefix
	PathStyle bool
}

// api is the part of *s3.Client the uploader uses.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes weekly artifacts to a single bucket.
type Uploader struct {
	client api
	bucket string
	prefix string
	log    logging.Logger
}

// New creates an uploader from Config.
func New(ctx context.Context, cfg Config, log logging.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("upload: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("upload: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}, nil
}

// PutBoard uploads the weekly poster under boards/<shabbat date>.png and
// returns the object key.
func (u *Uploader) PutBoard(ctx context.Context, shabbatDate time.Time, png []byte) (string, error) {
	key := path.Join(u.prefix, "boards", shabbatDate.Format("2006-01-02")+".png")
	if err := u.put(ctx, key, "image/png", png); err != nil {
		return "", err
	}
	return key, nil
}

// PutICS uploads a calendar file under calendars/<name> and returns the
// object key.
func (u *Uploader) PutICS(ctx context.Context, name string, data []byte) (string, error) {
	key := path.Join(u.prefix, "calendars", name)
	if err := u.put(ctx, key, "text/calendar; charset=utf-8", data); err != nil {
		return "", err
	}
	return key, nil
}

func (u *Uploader) put(ctx context.Context, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload: put %s: %w", key, err)
	}
	u.log.Info("artifact uploaded",
		logging.String("bucket", u.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(data)))
	return nil
}
