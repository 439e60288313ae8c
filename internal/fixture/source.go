package fixture

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/errors"
)

// Source loads fixtures by name.
type Source interface {
	Load(ctx context.Context, name string) (*Document, error)
}

// withExt appends ".json" to names without an extension.
func withExt(name string) string {
	if path.Ext(name) == "" {
		return name + ".json"
	}
	return name
}

// FileSource reads fixtures from a directory.
type FileSource struct {
	Dir string
}

// Load reads Dir/name. Absolute names are read as given.
func (s FileSource) Load(ctx context.Context, name string) (*Document, error) {
	p := withExt(name)
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.Dir, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrFixtureNotFound).
				WithDetail("No fixture at " + p)
		}
		return nil, errors.FromError(err, errors.ErrFixtureNotFound)
	}
	return parse(p, data)
}

// ObjectGetter is the part of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads fixtures from an S3 bucket.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Prefix string
}

// NewS3Source creates an S3Source from fixture configuration.
func NewS3Source(cfg config.S3Config) *S3Source {
	return &S3Source{
		Client: NewS3Client(cfg),
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
	}
}

// NewS3Client creates an S3 client for cfg. Credentials come from
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY; without them requests are
// unsigned, which is enough for public buckets.
func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  envCredentials(),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "environment",
		}, nil
	}))
}

// Key returns the object key for name.
func (s *S3Source) Key(name string) string {
	prefix := s.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + withExt(name)
}

// Load fetches and parses the object for name.
func (s *S3Source) Load(ctx context.Context, name string) (*Document, error) {
	key := s.Key(name)
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return nil, errors.New(errors.ErrFixtureNotFound).
				WithDetail("No object s3://" + s.Bucket + "/" + key)
		}
		return nil, errors.New(errors.ErrFixtureNotFound).
			WithDetail("Fetching s3://" + s.Bucket + "/" + key + " failed").
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.FromError(err, errors.ErrFixtureNotFound)
	}
	return parse("s3://"+s.Bucket+"/"+key, data)
}

// FromConfig returns the S3 source when a bucket is configured and the
// fixture directory otherwise.
func FromConfig(cfg *config.Config) Source {
	if cfg.HasS3() {
		return NewS3Source(cfg.Fixtures.S3)
	}
	return FileSource{Dir: cfg.FixturesPath()}
}
