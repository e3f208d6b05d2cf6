package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/getmenuly/menuly/internal/config"
	"github.com/getmenuly/menuly/internal/media/domain"
	"go.uber.org/zap"
)

// Store is the S3-backed ObjectStore. It also works against MinIO with an
// endpoint override and path-style addressing.
type Store struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
	region  string
	baseURL string
}

func New(cfg config.Config, log *zap.Logger) (domain.ObjectStore, error) {
	ctx := context.Background()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		if cfg.S3UsePathStyle {
			o.UsePathStyle = true
		}
	})

	baseURL := ""
	if cfg.S3Endpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", cfg.S3Endpoint, cfg.S3Bucket)
	}

	if log != nil {
		log.Info("object store initialized",
			zap.String("bucket", cfg.S3Bucket),
			zap.String("region", cfg.S3Region),
		)
	}

	return &Store{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		baseURL: baseURL,
	}, nil
}

func (s *Store) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put object: %w", err)
	}
	return req.URL, nil
}

func (s *Store) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// deleteBatchMax is the DeleteObjects per-request key limit.
const deleteBatchMax = 1000

func (s *Store) DeleteBatch(ctx context.Context, keys []string) ([]string, []domain.KeyError, error) {
	if len(keys) == 0 {
		return nil, nil, nil
	}

	var deleted []string
	var failed []domain.KeyError
	for _, chunk := range chunkKeys(keys, deleteBatchMax) {
		chunkDeleted, chunkFailed, err := s.deleteChunk(ctx, chunk)
		if err != nil {
			return nil, nil, err
		}
		deleted = append(deleted, chunkDeleted...)
		failed = append(failed, chunkFailed...)
	}
	return deleted, failed, nil
}

func chunkKeys(keys []string, size int) [][]string {
	chunks := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}

func (s *Store) deleteChunk(ctx context.Context, keys []string) ([]string, []domain.KeyError, error) {
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("delete objects: %w", err)
	}

	failed := make([]domain.KeyError, 0, len(out.Errors))
	failedKeys := make(map[string]bool, len(out.Errors))
	for _, objErr := range out.Errors {
		key := aws.ToString(objErr.Key)
		failedKeys[key] = true
		failed = append(failed, domain.KeyError{
			Key:     key,
			Code:    aws.ToString(objErr.Code),
			Message: aws.ToString(objErr.Message),
		})
	}

	deleted := make([]string, 0, len(keys))
	for _, key := range keys {
		if !failedKeys[key] {
			deleted = append(deleted, key)
		}
	}
	return deleted, failed, nil
}
