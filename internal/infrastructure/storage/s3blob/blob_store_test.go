package s3blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeAPI) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

var testConfig = Config{Bucket: "covers", PublicURL: "http://minio:9000/covers/", KeyPrefix: "books/"}

func TestBlobStore_UploadThenDelete(t *testing.T) {
	api := newFakeAPI()
	store := New(api, testConfig)

	blob, err := store.Upload(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, blob.ID)

	assert.Equal(t, "http://minio:9000/covers/books/"+blob.ID, blob.URL)
	assert.Equal(t, []byte("png-bytes"), api.objects["covers/books/"+blob.ID])
	assert.Equal(t, "image/png", api.types["books/"+blob.ID])

	lastSegment := blob.URL[strings.LastIndex(blob.URL, "/")+1:]
	assert.Equal(t, blob.ID, lastSegment, "id must be recoverable from the url")

	require.NoError(t, store.Delete(context.Background(), blob.ID))
	assert.Empty(t, api.objects)
}

func TestBlobStore_Errors(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("access denied")
	store := New(api, testConfig)

	_, err := store.Upload(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, api.err)
	assert.ErrorIs(t, store.Delete(context.Background(), "abc"), api.err)
	assert.ErrorIs(t, store.Ping(context.Background()), api.err)

	_, err = store.Upload(context.Background(), nil, "image/png")
	assert.Error(t, err)
	assert.Error(t, store.Delete(context.Background(), ""))
}

func TestPublicURLAndMarker(t *testing.T) {
	assert.Equal(t, "https://covers.s3.eu-west-1.amazonaws.com",
		PublicURL(Config{Bucket: "covers", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/covers",
		PublicURL(Config{Bucket: "covers", Endpoint: "http://localhost:9000/"}))
	assert.Equal(t, "https://cdn.example.com",
		PublicURL(Config{Bucket: "covers", PublicURL: "https://cdn.example.com/"}))

	assert.Equal(t, "covers.s3.eu-west-1.amazonaws.com", URLMarker("https://covers.s3.eu-west-1.amazonaws.com"))
	assert.Equal(t, "localhost:9000", URLMarker("http://localhost:9000/covers"))
}
