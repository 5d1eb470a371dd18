package viz

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Publisher turns a rendered PNG into a dereferenceable chart reference:
// either a public URL or an inline-encoded payload, depending on deployment
// mode.
type Publisher interface {
	Publish(ctx context.Context, filename string, png []byte) (string, error)
}

// Filename generates a unique chart object name: YYYYMMDD-HHMMSS-<suffix>.png.
func Filename() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s.png", time.Now().Format("20060102-150405"), suffix)
}

// InlinePublisher returns the image as a data URI. Used when no object
// storage is configured; nothing leaves the process.
type InlinePublisher struct{}

func (InlinePublisher) Publish(_ context.Context, _ string, png []byte) (string, error) {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// S3Publisher uploads charts to a bucket and returns a public URL.
type S3Publisher struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	urlPrefix string
}

// NewS3Publisher builds a publisher against bucket in region. urlPrefix
// overrides the default virtual-hosted URL, for bucket-fronting CDNs.
func NewS3Publisher(ctx context.Context, bucket, region, keyPrefix, urlPrefix string) (*S3Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Publisher{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

func (p *S3Publisher) Publish(ctx context.Context, filename string, png []byte) (string, error) {
	key := filename
	if p.keyPrefix != "" {
		key = p.keyPrefix + "/" + filename
	}
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload chart: %w", err)
	}
	return p.urlPrefix + "/" + key, nil
}
