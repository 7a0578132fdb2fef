// Package s3 signs time-limited download links for movie media.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Presigner struct {
	client *s3.PresignClient
	bucket string
	prefix string
	expiry time.Duration
}

func New(awsCfg aws.Config, region, bucket, prefix string, expiry time.Duration) *Presigner {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if region != "" {
			o.Region = region
		}
	})
	return &Presigner{
		client: s3.NewPresignClient(client),
		bucket: bucket,
		prefix: prefix,
		expiry: expiry,
	}
}

// PresignMedia returns a GET URL for the object stored under prefix+key.
func (p *Presigner) PresignMedia(ctx context.Context, key string) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.prefix + key),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", fmt.Errorf("s3.Presigner.PresignMedia: %w", err)
	}
	return req.URL, nil
}
