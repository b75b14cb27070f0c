package s3_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3storage "legal-document-manager/pkg/adapters/filestorage/s3"
)

type fakeObjects struct {
	input *s3.PutObjectInput
	body  string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	input   *s3.GetObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = in
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + aws.ToString(in.Key)}, nil
}

func TestS3FileStorage(t *testing.T) {
	objects := &fakeObjects{}
	presigner := &fakePresigner{}
	storage := s3storage.NewS3FileStorageWith(objects, presigner, "legal-exports")
	ctx := context.Background()

	location, err := storage.Save(ctx, "Contrato.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	key := aws.ToString(objects.input.Key)
	assert.True(t, strings.HasPrefix(key, "exports/"))
	assert.True(t, strings.HasSuffix(key, "/Contrato.pdf"))
	assert.Equal(t, "s3://legal-exports/"+key, location)
	assert.Equal(t, "application/pdf", aws.ToString(objects.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(objects.input.ContentLength))
	assert.Equal(t, "%PDF", objects.body)

	url, err := storage.GenerateDownloadURL(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/"+key, url)
	assert.Equal(t, "legal-exports", aws.ToString(presigner.input.Bucket))
	assert.Equal(t, 15*time.Minute, presigner.expires)
}

func TestS3FileStorageKeysAreUnique(t *testing.T) {
	objects := &fakeObjects{}
	storage := s3storage.NewS3FileStorageWith(objects, &fakePresigner{}, "b")

	first, err := storage.Save(context.Background(), "a.md", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Nil(t, objects.input.ContentType)
	second, err := storage.Save(context.Background(), "a.md", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateDownloadURLRejectsForeignLocations(t *testing.T) {
	storage := s3storage.NewS3FileStorageWith(&fakeObjects{}, &fakePresigner{}, "b")

	for _, loc := range []string{"/tmp/a.pdf", "s3://bucket", "s3:///key"} {
		_, err := storage.GenerateDownloadURL(context.Background(), loc)
		assert.Error(t, err, loc)
	}
}
