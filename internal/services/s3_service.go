package services

import (
	"bytes"
	"fmt"
	"strings"

	"contacts-manager/config"
	"contacts-manager/internal/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Service struct {
	s3Client *s3.S3
	config   *config.S3Config
}

func NewS3Service(config *config.S3Config) (*S3Service, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.ServiceUrl != "" {
		awsConfig.Endpoint = aws.String(config.ServiceUrl)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 session: %v", err)
	}

	return &S3Service{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadBytes stores data under the configured prefix and returns its URL.
func (s *S3Service) UploadBytes(data []byte, fileName string, contentType string) (string, error) {
	key := s.config.Prefix + fileName

	utils.LogInfo("Uploading %s to s3 bucket %s", key, s.config.BucketName)

	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := s.s3Client.PutObject(params)
	if err != nil {
		return "", fmt.Errorf("error uploading to s3: %v", err)
	}

	return s.objectURL(key), nil
}

func (s *S3Service) objectURL(key string) string {
	if s.config.BucketUrl != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.BucketUrl, "/"), key)
	}
	if s.config.ServiceUrl != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.ServiceUrl, "/"), s.config.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.BucketName, s.config.Region, key)
}
