// Package publish delivers finished videos: object storage first, then
// optional social platforms. Upload errors are reported separately from
// render errors so callers can tell a produced-but-unpublished video
// from a failed generation.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"

	appconfig "poetry-reels/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Publisher uploads rendered videos to an S3 bucket and returns
// their public URL. With no bucket configured it is disabled and
// callers keep the local file path instead.
type S3Publisher struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
	prefix  string
}

// NewS3Publisher builds the client from env credentials and the
// publish config. Returns a disabled publisher when the bucket or
// credentials are missing.
func NewS3Publisher(ctx context.Context, cfg appconfig.PublishConfig) (*S3Publisher, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	p := &S3Publisher{
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		baseURL: cfg.S3BaseURL,
		prefix:  cfg.S3KeyPrefix,
	}
	if cfg.S3Bucket == "" || accessKey == "" || secretKey == "" {
		log.Println("[publish] S3 not configured, videos stay local")
		return p, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	p.client = s3.NewFromConfig(awsCfg)
	return p, nil
}

// Enabled reports whether uploads will actually go to S3
func (p *S3Publisher) Enabled() bool {
	return p.client != nil
}

// Key builds the object key for one video ID
func (p *S3Publisher) Key(videoID string) string {
	return fmt.Sprintf("%s/%s.mp4", p.prefix, videoID)
}

// Upload pushes the file and returns its public URL. A disabled
// publisher returns a file:// URL for the local path.
func (p *S3Publisher) Upload(ctx context.Context, localPath, videoID string) (string, error) {
	if !p.Enabled() {
		return "file://" + localPath, nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	key := p.Key(videoID)
	log.Printf("[publish] uploading %s to s3://%s/%s", localPath, p.bucket, key)

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	url := p.URL(key)
	log.Printf("[publish] uploaded: %s", url)
	return url, nil
}

// URL resolves an object key to its public address
func (p *S3Publisher) URL(key string) string {
	if p.baseURL != "" {
		return fmt.Sprintf("%s/%s", p.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
