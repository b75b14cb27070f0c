// Package awsconf carga la configuración de AWS compartida por los adaptadores de DynamoDB y S3.
package awsconf

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// LocalRegion y los endpoints locales se usan cuando AWS_SAM_LOCAL=true.
	LocalRegion           = "us-east-1"
	LocalDynamoDBEndpoint = "http://host.docker.internal:8000"
	LocalS3Endpoint       = "http://host.docker.internal:4566" // LocalStack
)

// Options ajusta la carga. Los endpoints vacíos usan los de AWS.
type Options struct {
	Region           string
	Local            bool
	DynamoDBEndpoint string
	S3Endpoint       string
}

// LocalFromEnv indica si se está corriendo contra DynamoDB Local y LocalStack.
func LocalFromEnv() bool {
	return os.Getenv("AWS_SAM_LOCAL") == "true"
}

// Config es la configuración cargada junto con los endpoints de cada servicio.
type Config struct {
	AWS              aws.Config
	dynamoDBEndpoint string
	s3Endpoint       string
}

// Load carga la configuración por defecto del SDK. En modo local usa credenciales
// estáticas de prueba y los endpoints locales salvo que opts indique otros.
func Load(ctx context.Context, opts Options) (*Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts.Local {
		if opts.Region == "" {
			opts.Region = LocalRegion
		}
		if opts.DynamoDBEndpoint == "" {
			opts.DynamoDBEndpoint = LocalDynamoDBEndpoint
		}
		if opts.S3Endpoint == "" {
			opts.S3Endpoint = LocalS3Endpoint
		}
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "test")),
		)
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &Config{
		AWS:              cfg,
		dynamoDBEndpoint: opts.DynamoDBEndpoint,
		s3Endpoint:       opts.S3Endpoint,
	}, nil
}

// DynamoDB crea un cliente de DynamoDB.
func (c *Config) DynamoDB() *dynamodb.Client {
	return dynamodb.NewFromConfig(c.AWS, func(o *dynamodb.Options) {
		if c.dynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(c.dynamoDBEndpoint)
		}
	})
}

// S3 crea un cliente de S3. Con endpoint propio se usan rutas estilo path, como pide LocalStack.
func (c *Config) S3() *s3.Client {
	return s3.NewFromConfig(c.AWS, func(o *s3.Options) {
		if c.s3Endpoint != "" {
			o.BaseEndpoint = aws.String(c.s3Endpoint)
			o.UsePathStyle = true
		}
	})
}
