package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"pwrite-go/internal/pw"
)

// fakeS3 is an in-memory object store implementing s3Client.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) objectKey(bucket, key *string) string {
	return aws.ToString(bucket) + "/" + aws.ToString(key)
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[f.objectKey(in.Bucket, in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[f.objectKey(in.Bucket, in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[f.objectKey(in.Bucket, in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart upload not supported by fake")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not supported by fake")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not supported by fake")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestS3BackupStore_Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "hosts_backup.txt"},
		{prefix: "laptop", want: "laptop/hosts_backup.txt"},
		{prefix: "a/b/", want: "a/b/hosts_backup.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := newS3BackupStore(newFakeS3(), "hosts", "bucket", tt.prefix)
			if s.Key() != tt.want {
				t.Errorf("Key() = %q, want %q", s.Key(), tt.want)
			}
		})
	}
}

func TestS3BackupStore_SaveLoad(t *testing.T) {
	client := newFakeS3()
	s := newS3BackupStore(client, "hosts", "bucket", "laptop")

	if s.Exists() {
		t.Error("Exists() = true for empty bucket")
	}
	if _, err := s.Load(); !errors.Is(err, pw.ErrBackupNotFound) {
		t.Fatalf("Load() error = %v, want ErrBackupNotFound", err)
	}

	if err := s.Save([]byte("127.0.0.1 localhost\n")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !s.Exists() {
		t.Error("Exists() = false after Save")
	}
	if _, ok := client.objects["bucket/laptop/hosts_backup.txt"]; !ok {
		t.Errorf("object not stored under expected key, have %v", client.objects)
	}

	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(snap.Content) != "127.0.0.1 localhost\n" {
		t.Errorf("Load() = %q", snap.Content)
	}
}

func TestS3BackupStore_Errors(t *testing.T) {
	t.Run("upload failure", func(t *testing.T) {
		client := newFakeS3()
		client.putErr = errors.New("access denied")
		s := newS3BackupStore(client, "hosts", "bucket", "")

		if err := s.Save([]byte("x")); !errors.Is(err, pw.ErrBackupIO) {
			t.Errorf("Save() error = %v, want ErrBackupIO", err)
		}
	})

	t.Run("download failure", func(t *testing.T) {
		client := newFakeS3()
		client.getErr = errors.New("connection reset")
		s := newS3BackupStore(client, "hosts", "bucket", "")

		_, err := s.Load()
		if !errors.Is(err, pw.ErrBackupIO) {
			t.Errorf("Load() error = %v, want ErrBackupIO", err)
		}
		if errors.Is(err, pw.ErrBackupNotFound) {
			t.Error("transport error reported as not found")
		}
	})
}
