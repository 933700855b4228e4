package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/storage"
)

// fakeS3 is an in-memory bucket. pageSize limits ListObjectsV2 results.
type fakeS3 struct {
	objects   map[string]string
	pageSize  int
	listCalls int
	getErr    error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, pageSize: 1000}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("image/png"),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	for _, id := range in.Delete.Objects {
		delete(f.objects, aws.ToString(id.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	prefix := aws.ToString(in.Prefix)

	var contents []types.Object
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
		if len(contents) == f.pageSize {
			break
		}
	}

	out := &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}
	// Deleted keys leave the map, so the next page is whatever is left.
	remaining := 0
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			remaining++
		}
	}
	if remaining > len(contents) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(fmt.Sprintf("page-%d", f.listCalls))
	}
	return out, nil
}

func TestS3_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := storage.NewS3WithClient(fake, "albums")

	require.NoError(t, store.Save(ctx, "f-1/a.png", strings.NewReader("data"), 4, "image/png"))
	assert.Equal(t, "data", fake.objects["f-1/a.png"])

	obj, err := store.Open(ctx, "f-1/a.png")
	require.NoError(t, err)
	body, err := io.ReadAll(obj)
	require.NoError(t, err)
	obj.Close()
	assert.Equal(t, "data", string(body))
	assert.Equal(t, int64(4), obj.Size)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, store.Delete(ctx, "f-1/a.png"))
	_, err = store.Open(ctx, "f-1/a.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestS3_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store := storage.NewS3WithClient(newFakeS3(), "albums")

	_, err := store.Open(ctx, "../other/a.png")
	assert.ErrorIs(t, err, storage.ErrOutsideRoot)
	assert.ErrorIs(t, store.Save(ctx, "/abs.png", strings.NewReader(""), 0, ""), storage.ErrOutsideRoot)
}

func TestS3_OpenErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := storage.NewS3WithClient(fake, "albums")

	fake.getErr = errors.New("connection reset")
	_, err := store.Open(ctx, "f-1/a.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestS3_DeletePrefixPaginates(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.pageSize = 2
	store := storage.NewS3WithClient(fake, "albums")

	for i := 0; i < 5; i++ {
		fake.objects[fmt.Sprintf("f-1/%d.png", i)] = "x"
	}
	fake.objects["f-10/keep.png"] = "x"

	require.NoError(t, store.DeletePrefix(ctx, "f-1"))

	assert.Equal(t, map[string]string{"f-10/keep.png": "x"}, fake.objects)
	assert.Equal(t, 3, fake.listCalls)
}
