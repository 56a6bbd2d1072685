package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/vanshsoni916/VideoTweetApp/internal/config"
	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

// Upload categories. The category becomes the key prefix in the bucket.
const (
	CategoryVideos     = "videos"
	CategoryThumbnails = "thumbnails"
	CategoryAvatars    = "avatars"
	CategoryCovers     = "covers"
)

// S3MediaStore uploads staged files to an S3-compatible bucket and resolves
// their public URLs. Video uploads are probed for duration before shipping.
type S3MediaStore struct {
	uploader *manager.Uploader
	client   *s3.Client
	bucket   string
	baseURL  string
	prober   DurationProber
}

// DurationProber reports a media file's duration in whole seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (int64, error)
}

// NewS3MediaStore configures an uploader targeting the provided object store.
func NewS3MediaStore(ctx context.Context, cfg config.ObjectStoreConfig, prober DurationProber) (*S3MediaStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("media store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3MediaStore{
		uploader: uploader,
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		prober:   prober,
	}, nil
}

// Upload ships a staged local file to the bucket under the category prefix.
// The staged file is removed before returning, on success and on failure.
func (s *S3MediaStore) Upload(ctx context.Context, localPath, category string) (models.MediaAsset, error) {
	defer os.Remove(localPath)

	if strings.TrimSpace(category) == "" {
		return models.MediaAsset{}, fmt.Errorf("media store: empty category")
	}

	var duration int64
	if category == CategoryVideos && s.prober != nil {
		probed, err := s.prober.Duration(ctx, localPath)
		if err != nil {
			return models.MediaAsset{}, fmt.Errorf("probe duration: %w", err)
		}
		duration = probed
	}

	file, err := os.Open(localPath)
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	key := category + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(localPath))
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("%w: upload %s: %v", content.ErrUpstream, key, err)
	}

	return models.MediaAsset{
		URL:             s.publicURL(key),
		PublicID:        key,
		DurationSeconds: duration,
	}, nil
}

// Release deletes an uploaded object. The kind argument is accepted for
// parity with stores that address assets per resource type; S3 keys already
// carry their category prefix.
func (s *S3MediaStore) Release(ctx context.Context, publicID, _ string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", content.ErrUpstream, publicID, err)
	}

	return nil
}

func (s *S3MediaStore) publicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

var _ content.MediaStore = (*S3MediaStore)(nil)
