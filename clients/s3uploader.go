package clients

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3Config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/bookreviews/config"
)

// S3Uploader stores book covers in an S3 bucket.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

// NewS3Uploader configures an AWS S3 client and uploader from cfg.
func NewS3Uploader(ctx context.Context, cfg config.Config) (*S3Uploader, error) {
	opts := []func(*s3Config.LoadOptions) error{
		s3Config.WithRegion(cfg.S3.Region),
		s3Config.WithHTTPClient(NewHTTPClient()),
	}
	if cfg.S3.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
		opts = append(opts, s3Config.WithCredentialsProvider(creds))
	}
	awsCfg, err := s3Config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3.Bucket,
		region:   cfg.S3.Region,
	}, nil
}

// Upload stores body under key and returns the object's public URL.
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: int64(len(body)),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return ObjectURL(u.bucket, u.region, key), nil
}

// ObjectURL returns the virtual-hosted style URL of an S3 object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
