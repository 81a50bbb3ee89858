// Package services holds clients for external storage.
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectPutter is the slice of the s3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SpacesService uploads public images to a DigitalOcean Spaces bucket.
type SpacesService struct {
	client ObjectPutter
	bucket string
	region string
	root   string
}

func NewSpacesService(ctx context.Context, key, secret, region, bucket, root string) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	return NewSpacesServiceWithClient(s3.NewFromConfig(cfg), region, bucket, root), nil
}

func NewSpacesServiceWithClient(client ObjectPutter, region, bucket, root string) *SpacesService {
	return &SpacesService{
		client: client,
		bucket: bucket,
		region: region,
		root:   strings.Trim(root, "/"),
	}
}

func (s *SpacesService) key(name string) string {
	if s.root == "" {
		return name
	}
	return s.root + "/" + name
}

// URL is the public address of name once uploaded.
func (s *SpacesService) URL(name string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.key(name))
}

// Put uploads data as a public object and returns its URL.
func (s *SpacesService) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(s.key(name)),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=86400"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return s.URL(name), nil
}
