package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cinecollection/internal/server/config"
	"github.com/dmitrijs2005/cinecollection/internal/server/models"
	"github.com/google/uuid"
)

// PresignExpiry is how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3PosterStore presigns poster uploads against an S3-compatible bucket
// (MinIO in development).
type S3PosterStore struct {
	cfg *config.Config
	now func() time.Time

	mu     sync.Mutex
	client *s3.PresignClient
}

// NewS3PosterStore returns nil when no bucket is configured.
func NewS3PosterStore(cfg *config.Config) *S3PosterStore {
	if cfg.S3Bucket == "" {
		return nil
	}
	return &S3PosterStore{cfg: cfg, now: time.Now}
}

// PosterKey is the object key for a new poster of userID.
func PosterKey(userID int64, t time.Time) string {
	return fmt.Sprintf("posters/%d/%04d/%02d/%s", userID, t.Year(), int(t.Month()), uuid.New())
}

func (s *S3PosterStore) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3RootUser,
			s.cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	s.client = newS3PresignClient(client)
	return s.client, nil
}

func (s *S3PosterStore) PresignUpload(ctx context.Context, userID int64, contentType string) (*models.PosterUpload, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	key := PosterKey(userID, now)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, err
	}

	return &models.PosterUpload{
		Key:       key,
		UploadURL: req.URL,
		PosterURL: s.publicURL(key),
		ExpiresAt: now.Add(PresignExpiry),
	}, nil
}

// publicURL is where the stored object is read from once uploaded.
func (s *S3PosterStore) publicURL(key string) string {
	base := s.cfg.S3PublicBaseURL
	if base == "" {
		if s.cfg.S3BaseEndpoint != "" {
			base = strings.TrimRight(s.cfg.S3BaseEndpoint, "/") + "/" + s.cfg.S3Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.S3Bucket, s.cfg.S3Region)
		}
	}
	u, err := url.JoinPath(base, key)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + key
	}
	return u
}
