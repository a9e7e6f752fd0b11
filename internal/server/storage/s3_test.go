package storage

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	s := NewS3WithClient(fake, "files")

	require.NoError(t, s.MkdirAll(ctx, "/tmp/files_manager"))

	ok, err := s.Exists(ctx, "/tmp/files_manager/abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "/tmp/files_manager/abc", []byte("data")))
	assert.Contains(t, fake.objects, "files/tmp/files_manager/abc")

	ok, err = s.Exists(ctx, "/tmp/files_manager/abc")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Read(ctx, "/tmp/files_manager/abc")
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestS3_ReadMissing(t *testing.T) {
	s := NewS3WithClient(newFakeObjects(), "files")
	_, err := s.Read(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	fake.err = errors.New("connection refused")
	s := NewS3WithClient(fake, "files")

	require.Error(t, s.Write(ctx, "a", []byte("x")))

	_, err := s.Read(ctx, "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Exists(ctx, "a")
	require.Error(t, err)
}

func TestNewS3(t *testing.T) {
	s, err := NewS3(context.Background(), S3Config{
		Region:       "us-east-1",
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
		BaseEndpoint: "http://127.0.0.1:9000/",
		Bucket:       "files",
	})
	require.NoError(t, err)
	assert.Equal(t, "files", s.bucket)
	assert.NotNil(t, s.client)
}
