package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	appcfg "github.com/StrixzIV/adv-compro-finals/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Objects above this size are streamed through the multipart uploader
const multipartLimit = 100 << 20

// S3Store talks to any S3-compatible endpoint (MinIO in the compose
// setup, R2/S3 otherwise)
type S3Store struct {
	C      *s3.Client
	Bucket *string
}

func NewS3(cfg *appcfg.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(cfg.S3Bucket)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.Region = cfg.S3Region
		// MinIO doesn't do virtual-hosted bucket addressing
		o.UsePathStyle = true
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return nil, fmt.Errorf("bucket '%s' does not exist", cfg.S3Bucket)
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Store{
		C:      client,
		Bucket: bucket,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	if size > multipartLimit {
		u := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err := u.Upload(ctx, input)
		return err
	}

	_, err := s.C.PutObject(ctx, input)
	return err
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrObjectMissing
		}

		return nil, err
	}

	return out.Body, nil
}

func (s *S3Store) Stat(ctx context.Context, key string) (int64, error) {
	out, err := s.C.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, ErrObjectMissing
		}

		return 0, err
	}

	return aws.ToInt64(out.ContentLength), nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil && !isNoSuchKey(err) {
		return err
	}

	return nil
}

func (s *S3Store) TotalSize(ctx context.Context) (int64, error) {
	buckets, err := s.C.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return 0, err
	}

	var total int64

	for _, b := range buckets.Buckets {
		p := s3.NewListObjectsV2Paginator(s.C, &s3.ListObjectsV2Input{
			Bucket: b.Name,
		})

		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return 0, err
			}

			for _, obj := range page.Contents {
				total += aws.ToInt64(obj.Size)
			}
		}
	}

	return total, nil
}

func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.C.ListBuckets(ctx, &s3.ListBucketsInput{})
	return err
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
