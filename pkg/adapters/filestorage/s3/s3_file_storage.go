package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"legal-document-manager/pkg/ports"
)

const (
	keyPrefix     = "exports"
	presignExpiry = 15 * time.Minute
)

// ObjectAPI es la parte de *s3.Client que se usa para subir archivos.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner firma URLs temporales de descarga.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type s3FileStorage struct {
	client     ObjectAPI
	presigner  Presigner
	bucketName string
	expiry     time.Duration
}

// NewS3FileStorage crea una nueva instancia de S3FileStorage
func NewS3FileStorage(client *s3.Client, bucketName string) ports.FileStorage {
	return NewS3FileStorageWith(client, s3.NewPresignClient(client), bucketName)
}

// NewS3FileStorageWith permite inyectar cliente y firmador.
func NewS3FileStorageWith(client ObjectAPI, presigner Presigner, bucketName string) ports.FileStorage {
	return &s3FileStorage{
		client:     client,
		presigner:  presigner,
		bucketName: bucketName,
		expiry:     presignExpiry,
	}
}

// Save implementa ports.FileStorage. La clave lleva un UUID para evitar colisiones
// entre archivos con el mismo nombre; la ubicación devuelta es s3://bucket/clave.
func (s *s3FileStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	// El SDK necesita un cuerpo con Seek para calcular el checksum sin TLS.
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}

	key := path.Join(keyPrefix, uuid.NewString(), path.Base(name))
	input := &s3.PutObjectInput{
		Bucket:             aws.String(s.bucketName),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentLength:      aws.Int64(int64(len(body))),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(name))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return "s3://" + s.bucketName + "/" + key, nil
}

// GenerateDownloadURL implementa ports.FileStorage.
func (s *s3FileStorage) GenerateDownloadURL(ctx context.Context, location string) (string, error) {
	bucket, key, err := parseLocation(location)
	if err != nil {
		return "", err
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}
	return request.URL, nil
}

func parseLocation(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid S3 location %q", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 location %q", location)
	}
	return bucket, key, nil
}

// Asegurarse de que s3FileStorage implementa ports.FileStorage
var (
	_ ports.FileStorage = (*s3FileStorage)(nil)
	_ Presigner         = (*s3.PresignClient)(nil)
)
