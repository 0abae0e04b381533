package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"pwrite-go/internal/config"
	"pwrite-go/internal/pw"
)

// s3Client is the subset of the S3 API the store needs.
type s3Client interface {
	manager.UploadAPIClient
	s3.HeadObjectAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3BackupStore keeps the snapshot as a single object
// s3://<bucket>/<prefix>/<name>_backup.txt.
type S3BackupStore struct {
	name     string
	bucket   string
	key      string
	client   s3Client
	uploader *manager.Uploader
}

// NewS3BackupStore loads AWS configuration (shared config, environment,
// or the static keys in cfg) and returns a store for cfg.Name.
func NewS3BackupStore(ctx context.Context, cfg config.BackupConfig) (*S3BackupStore, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 backup store requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3BackupStore(client, cfg.Name, cfg.S3Bucket, cfg.S3Prefix), nil
}

func newS3BackupStore(client s3Client, name, bucket, prefix string) *S3BackupStore {
	return &S3BackupStore{
		name:     name,
		bucket:   bucket,
		key:      path.Join(prefix, FileName(name)),
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

// Key returns the object key of the snapshot.
func (s *S3BackupStore) Key() string {
	return s.key
}

// Save uploads the snapshot. S3 replaces objects atomically, so readers
// see either the old or the new snapshot.
func (s *S3BackupStore) Save(content []byte) error {
	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("%w: uploading s3://%s/%s: %w", pw.ErrBackupIO, s.bucket, s.key, err)
	}
	return nil
}

// Load downloads the snapshot.
func (s *S3BackupStore) Load() (*pw.Snapshot, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: s3://%s/%s", pw.ErrBackupNotFound, s.bucket, s.key)
		}
		return nil, fmt.Errorf("%w: downloading s3://%s/%s: %w", pw.ErrBackupIO, s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading s3://%s/%s: %w", pw.ErrBackupIO, s.bucket, s.key, err)
	}
	return &pw.Snapshot{Name: s.name, Content: data}, nil
}

// Exists checks the object with HeadObject. Any error counts as absent.
func (s *S3BackupStore) Exists() bool {
	_, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	return err == nil
}

// Compile-time check that S3BackupStore implements pw.BackupStore interface
var _ pw.BackupStore = (*S3BackupStore)(nil)
