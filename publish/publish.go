// Package publish uploads schema snapshots to S3-compatible storage. It is
// only reachable from `stepsql snapshot --publish`; the apply path never
// touches the network.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of the S3 client the publisher uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher writes snapshot files under {prefix}/{key} in a bucket.
type S3Publisher struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher builds a publisher from static credentials in the
// environment (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY).
func NewS3Publisher(bucket, prefix, region string) (*S3Publisher, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("publishing requires AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY in the environment")
	}

	client := s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	})

	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads one object. The key is joined under the configured prefix.
func (p *S3Publisher) Put(ctx context.Context, key string, data []byte) error {
	objectKey := path.Join(p.prefix, key)
	contentType := "application/json"

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &objectKey,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		Metadata: map[string]string{
			"published-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put %s to s3://%s: %w", objectKey, p.bucket, err)
	}

	return nil
}
