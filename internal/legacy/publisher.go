package legacy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// PresignExpiry is how long a published download link stays valid.
const PresignExpiry = 15 * time.Minute

type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Publisher uploads exported files to an S3 compatible store (MinIO in
// development) and hands out presigned download links.
type Publisher struct {
	cfg S3Config
}

func NewPublisher(cfg S3Config) *Publisher {
	return &Publisher{cfg: cfg}
}

func (p *Publisher) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.RootUser,
			p.cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// StorageKey places an export under a dated prefix.
func StorageKey(path string) string {
	d := now().UTC()
	return fmt.Sprintf("exports/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), filepath.Base(path))
}

// Publish uploads each file and returns a presigned GET URL per file, in
// the same order.
func (p *Publisher) Publish(ctx context.Context, paths ...string) ([]string, error) {
	if p.cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	c, err := p.client(ctx)
	if err != nil {
		return nil, err
	}
	pc := newS3PresignClient(c)
	bucket := p.cfg.Bucket

	urls := make([]string, 0, len(paths))
	for _, path := range paths {
		key := StorageKey(path)
		if err := upload(ctx, c, bucket, key, path); err != nil {
			return nil, fmt.Errorf("error uploading %s: %w", path, err)
		}

		req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(PresignExpiry))
		if err != nil {
			return nil, err
		}
		urls = append(urls, req.URL)
	}
	return urls, nil
}

func upload(ctx context.Context, c *s3.Client, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   f,
	})
	return err
}
