// Package publish uploads rendered snapshots to S3-compatible storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/taigrr/brdfview/pkg/logging"
)

// UploadTimeout bounds a single PutObject call.
const UploadTimeout = 30 * time.Second

// ErrNoBucket is returned for an s3:// URL without a bucket.
var ErrNoBucket = errors.New("s3 url has no bucket")

// Target is an object destination parsed from s3://bucket/key.
type Target struct {
	Bucket string
	Key    string
}

// IsS3URL reports whether dest names S3 storage rather than a local file.
func IsS3URL(dest string) bool {
	return strings.HasPrefix(dest, "s3://")
}

// ParseTarget parses s3://bucket/key. A key that is empty or ends in "/"
// is a prefix; Resolve names the object inside it.
func ParseTarget(dest string) (Target, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return Target{}, fmt.Errorf("parse %q: %w", dest, err)
	}
	if u.Scheme != "s3" {
		return Target{}, fmt.Errorf("parse %q: scheme %q is not s3", dest, u.Scheme)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("parse %q: %w", dest, ErrNoBucket)
	}
	return Target{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
}

// IsPrefix reports whether the key names a folder rather than an object.
func (t Target) IsPrefix() bool {
	return t.Key == "" || strings.HasSuffix(t.Key, "/")
}

// Resolve returns a target naming a single object. Prefixes get a random
// UUID object name with the given extension.
func (t Target) Resolve(ext string) Target {
	if !t.IsPrefix() {
		return t
	}
	return Target{Bucket: t.Bucket, Key: t.Key + uuid.NewString() + ext}
}

// Ext returns the key's file extension.
func (t Target) Ext() string {
	return path.Ext(t.Key)
}

func (t Target) String() string {
	return "s3://" + t.Bucket + "/" + t.Key
}

// Config holds S3 connection settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// ConfigFromEnv reads S3_ENDPOINT, S3_REGION, S3_ACCESS_KEY and
// S3_SECRET_KEY, loading envFile first when it is set. Variables already in
// the environment win over the file.
func ConfigFromEnv(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env %s: %w", envFile, err)
		}
	}
	cfg := Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return cfg, nil
}

// Uploader puts snapshot bytes into S3.
type Uploader struct {
	client s3iface.S3API
	log    logging.Logger
}

// NewUploader creates an uploader from cfg. Without static keys the SDK's
// default credential chain is used. A custom endpoint switches to
// path-style addressing for S3-compatible stores.
func NewUploader(cfg Config, log logging.Logger) (*Uploader, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return NewUploaderWithClient(s3.New(sess), log), nil
}

// NewUploaderWithClient wraps an existing S3 client.
func NewUploaderWithClient(client s3iface.S3API, log logging.Logger) *Uploader {
	if log == nil {
		log = logging.NewNop()
	}
	return &Uploader{client: client, log: log}
}

// Upload stores data at t, which must name an object.
func (u *Uploader) Upload(ctx context.Context, t Target, data []byte, contentType string) error {
	if t.IsPrefix() {
		return fmt.Errorf("upload %s: key names a prefix", t)
	}
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.Bucket),
		Key:           aws.String(t.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", t, err)
	}

	u.log.Infof("uploaded %s (%d bytes)", t, size)
	return nil
}
