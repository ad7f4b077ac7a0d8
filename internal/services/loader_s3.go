package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

const s3Scheme = "s3://"

type ObjectStoreConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ObjectStoreLoader reads bundles stored under s3://bucket/prefix.
type ObjectStoreLoader struct {
	client          *minio.Client
	mandatory       []string
	maxContentBytes int64
	pdfParser       PDFParserService
}

func NewObjectStoreLoader(
	cfg ObjectStoreConfig,
	mandatory []string,
	maxContentBytes int64,
	pdfParser PDFParserService,
) (*ObjectStoreLoader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &ObjectStoreLoader{
		client:          client,
		mandatory:       mandatory,
		maxContentBytes: maxContentBytes,
		pdfParser:       pdfParser,
	}, nil
}

// ParseObjectLocation splits s3://bucket/prefix into its parts.
func ParseObjectLocation(location string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(location, s3Scheme) {
		return "", "", fmt.Errorf("not an s3 location: %s", location)
	}
	rest := strings.TrimPrefix(location, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("bucket is required in %s", location)
	}
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return bucket, prefix, nil
}

func (l *ObjectStoreLoader) Load(ctx context.Context, location string) (*models.ArtifactBundle, error) {
	bucket, prefix, err := ParseObjectLocation(location)
	if err != nil {
		return nil, errorf(ErrBundleUnavailable, "%v", err)
	}
	exists, err := l.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errorf(ErrBundleUnavailable, "check bucket %s: %v", bucket, err)
	}
	if !exists {
		return nil, errorf(ErrBundleUnavailable, "bucket %s does not exist", bucket)
	}

	bundle := &models.ArtifactBundle{
		Location: location,
		Files:    map[string]models.FileRecord{},
	}

	for obj := range l.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, errorf(ErrBundleUnavailable, "list %s: %v", location, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.HasSuffix(name, "/") || inHiddenDir(name) {
			continue
		}
		key := obj.Key
		rec, err := readRecord(name, obj.Size, obj.LastModified, l.maxContentBytes, l.pdfParser, func() (contentSource, error) {
			return l.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		})
		if err != nil {
			return nil, errorf(ErrBundleUnavailable, "get %s: %v", key, err)
		}
		bundle.Files[name] = rec
	}

	markMissing(bundle, l.mandatory)
	return bundle, nil
}
