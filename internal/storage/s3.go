package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements ObjectStorage against Amazon S3 or an S3-compatible
// endpoint (MinIO, Localstack). Presigned URLs are generated locally from
// the credentials; no request leaves the process until the caller uses them.
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	putTTL  time.Duration
	getTTL  time.Duration
}

type S3Config struct {
	Bucket string
	Region string

	// Endpoint overrides the AWS endpoint for S3-compatible storage. When
	// set, path-style addressing is forced.
	Endpoint string

	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	PutURLTTL time.Duration
	GetURLTTL time.Duration
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}

	putTTL := cfg.PutURLTTL
	if putTTL <= 0 {
		putTTL = 10 * time.Minute
	}
	getTTL := cfg.GetURLTTL
	if getTTL <= 0 {
		getTTL = time.Minute
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		provider := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(provider))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		putTTL:  putTTL,
		getTTL:  getTTL,
	}, nil
}

func (s *S3Storage) IssuePutURL(ctx context.Context, objectKey string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.putTTL))
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", objectKey, err)
	}
	return req.URL, nil
}

func (s *S3Storage) IssueGetURL(ctx context.Context, objectKey string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.getTTL))
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", objectKey, err)
	}
	return req.URL, nil
}

func (s *S3Storage) Metadata(ctx context.Context, objectKey string) (map[string]string, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("head object %q: %w", objectKey, err)
	}

	metadata := make(map[string]string, len(head.Metadata)+2)
	for key, value := range head.Metadata {
		metadata[key] = value
	}
	if head.ContentType != nil {
		metadata["content-type"] = *head.ContentType
	}
	if head.ContentLength != nil {
		metadata["content-length"] = fmt.Sprintf("%d", *head.ContentLength)
	}
	return metadata, nil
}
