package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appconfig "alfredoptarigan/resume-shortlister/internal/config"
	"alfredoptarigan/resume-shortlister/internal/models"
)

// ObjectAPI is the subset of the S3 client used by the object store.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

// NewS3Client builds an S3 client from static credentials. A non-empty endpoint
// targets an S3-compatible service such as R2 or MinIO.
func NewS3Client(ctx context.Context, cfg appconfig.S3Config) (*s3.Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("S3 credentials not set")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type objectStore struct {
	client       ObjectAPI
	bucket       string
	prefix       string
	shortlistDir string
	attempts     int
	logger       *zap.Logger
}

// NewObjectStore screens the objects directly under prefix in bucket and writes
// the shortlist under prefix + shortlistDir + "/".
func NewObjectStore(client ObjectAPI, bucket, prefix, shortlistDir string, attempts int, logger *zap.Logger) DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &objectStore{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		shortlistDir: shortlistDir,
		attempts:     attempts,
		logger:       logger,
	}
}

func (s *objectStore) List(ctx context.Context) ([]models.Document, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var docs []models.Document
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			docs = append(docs, models.Document{
				Path:     key,
				Filename: path.Base(key),
				Format:   models.FormatFromName(key),
			})
		}
	}

	return docs, nil
}

// Load downloads the object unless the format is unsupported, in which case the
// document is returned untouched and the evaluator rejects it without a download.
func (s *objectStore) Load(ctx context.Context, doc models.Document) (models.Document, error) {
	if !doc.Supported() || doc.Content != nil {
		return doc, nil
	}

	data, err := retry(ctx, s.attempts, func() ([]byte, error) {
		return s.download(ctx, doc.Path)
	})
	if err != nil {
		return doc, err
	}

	doc.Content = data
	return doc, nil
}

func (s *objectStore) download(ctx context.Context, key string) ([]byte, error) {
	ctxGet, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out, err := s.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func (s *objectStore) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.shortlistPrefix())
}

func (s *objectStore) shortlistPrefix() string {
	return s.prefix + s.shortlistDir + "/"
}

func (s *objectStore) CopyDocument(ctx context.Context, doc models.Document) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(copySource(s.bucket, doc.Path)),
		Key:        aws.String(s.shortlistPrefix() + doc.Filename),
	})
	if err != nil {
		return fmt.Errorf("s3 copy failed: %w", err)
	}
	return nil
}

func (s *objectStore) WriteReport(ctx context.Context, name string, data []byte) error {
	uploader := manager.NewUploader(s.client)

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.shortlistPrefix() + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(reportContentType(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}

	s.logger.Debug("report uploaded", zap.String("bucket", s.bucket), zap.String("name", name))
	return nil
}

// copySource URL-encodes each key segment as CopyObject requires.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func reportContentType(name string) string {
	switch path.Ext(name) {
	case ".csv":
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}
