package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore persists processed images and hands out their locators.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Locator(key string) string
}

type AWSServiceProvider interface {
	ObjectStore
	GetPresignedFileReadURL(ctx context.Context, fileKey string) (string, error)
}

type S3Options struct {
	BucketName      string
	Region          string
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
}

type AWSService struct {
	Client          *s3.Client
	S3PresignClient *s3.PresignClient
	Options         S3Options
}

// NewAWSService builds an S3 client. A custom endpoint (R2, MinIO) switches to
// path style addressing.
func NewAWSService(ctx context.Context, opts S3Options) (*AWSService, error) {
	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.AccessKeySecret, ""),
		))
	}
	if opts.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: opts.Endpoint, HostnameImmutable: true}, nil
		})
		loadOptions = append(loadOptions, config.WithEndpointResolverWithOptions(resolver))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.Endpoint != ""
	})
	return &AWSService{
		Client:          client,
		S3PresignClient: s3.NewPresignClient(client),
		Options:         opts,
	}, nil
}

func (awsService *AWSService) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := awsService.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(awsService.Options.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return awsService.Locator(key), nil
}

func (awsService *AWSService) Delete(ctx context.Context, key string) error {
	_, err := awsService.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(awsService.Options.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (awsService *AWSService) Locator(key string) string {
	return ObjectLocator(awsService.Options, key)
}

func (awsService *AWSService) GetPresignedFileReadURL(ctx context.Context, fileKey string) (string, error) {
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(awsService.Options.BucketName),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(presignedURLExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return presignedGetRequest.URL, nil
}

// ObjectLocator returns the public URL of key.
func ObjectLocator(opts S3Options, key string) string {
	key = strings.TrimPrefix(key, "/")
	if opts.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(opts.Endpoint, "/"), opts.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.BucketName, opts.Region, key)
}

// ImageKey is the object key of an item's processed image.
func ImageKey(clothingID string) string {
	return fmt.Sprintf("clothes/%s.png", clothingID)
}
