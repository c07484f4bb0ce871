package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SpacesService uploads rendered leaderboards to DigitalOcean Spaces.
type SpacesService struct {
	client *s3.Client
	bucket string
	region string
	root   string
	logger *slog.Logger
}

func NewSpacesService(ctx context.Context, key, secret, region, bucket, root string) (*SpacesService, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.digitaloceanspaces.com", region)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &SpacesService{
		client: client,
		bucket: bucket,
		region: region,
		root:   strings.Trim(root, "/"),
		logger: slog.With(slog.String("service", "spaces")),
	}, nil
}

func (s *SpacesService) objectKey(name string) string {
	if s.root == "" {
		return name
	}
	return s.root + "/" + name
}

func (s *SpacesService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

// UploadLeaderboard stores a rendered period leaderboard and returns its public URL.
func (s *SpacesService) UploadLeaderboard(ctx context.Context, periodStart int, png []byte) (string, error) {
	key := s.objectKey(fmt.Sprintf("wordle/leaderboards/%d.png", periodStart))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(png),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload leaderboard image: %w", err)
	}

	s.logger.Info("Leaderboard image uploaded",
		slog.String("key", key),
		slog.Int("size", len(png)))
	return s.PublicURL(key), nil
}
