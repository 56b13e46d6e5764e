package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parking-client/internal/config"
)

// ErrArchiveDisabled is returned when no bucket is configured
var ErrArchiveDisabled = errors.New("report archive is not configured")

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads rendered reports to an S3-compatible bucket (R2 style
// endpoint with static credentials)
type Archiver struct {
	client objectPutter
	bucket string
	prefix string
}

func NewArchiver(ctx context.Context, cfg *config.Config) (*Archiver, error) {
	if !cfg.ReportArchiveEnabled() {
		return nil, ErrArchiveDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Report.AccessKey,
			cfg.Report.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Report.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Report.Endpoint)
	})

	return &Archiver{client: client, bucket: cfg.Report.Bucket, prefix: "reports/"}, nil
}

// Upload stores the PDF and CSV renderings of t and returns their keys
func (a *Archiver) Upload(ctx context.Context, t Today) ([]string, error) {
	pdfData, err := t.PDF()
	if err != nil {
		return nil, err
	}
	csvData, err := t.CSV()
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("150405")
	objects := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{t.FileName("pdf"), pdfData, "application/pdf"},
		{t.FileName("csv"), csvData, "text/csv"},
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		key := fmt.Sprintf("%s%s_%s", a.prefix, stamp, obj.name)
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(obj.data),
			ContentType: aws.String(obj.contentType),
		})
		if err != nil {
			log.Printf("[Report] Failed to upload %s: %v", key, err)
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}
		log.Printf("[Report] Archived %s (%d bytes)", key, len(obj.data))
		keys = append(keys, key)
	}
	return keys, nil
}
