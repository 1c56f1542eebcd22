package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// Spaces keeps the document as a private object in a DigitalOcean Spaces
// (S3 compatible) bucket.
type Spaces struct {
	client *s3.Client
	bucket string
	object string
}

func NewSpaces(ctx context.Context, cfg SpacesConfig) (*Spaces, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	object := strings.TrimPrefix(cfg.Object, "/")
	if object == "" {
		object = DocumentKey + "/state.json"
	}
	return &Spaces{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		object: object,
	}, nil
}

func (s *Spaces) Name() string {
	return "spaces"
}

func (s *Spaces) Read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.object,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, crew.ErrNoDocument
		}
		return nil, fmt.Errorf("get %s/%s: %w", s.bucket, s.object, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", s.bucket, s.object, err)
	}
	return data, nil
}

// Write uploads the whole document; S3 object puts replace atomically.
func (s *Spaces) Write(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.object,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}

func (s *Spaces) Close() error {
	return nil
}
