// Package s3file provides a file-like client for S3-compatible object
// storage: named references to remote objects with byte-range slicing,
// streaming reads, presigned URLs, and normalized listing.
package s3file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Options configure a Client or a single call. Per-call Options are merged
// over the instance defaults; non-zero fields win.
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	Bucket   string
	Region   string
	Endpoint string
	// PathStyle forces path-style addressing, required by most self-hosted
	// S3-compatible services.
	PathStyle bool

	// ContentType overrides the stored content type on writes and
	// presigned PUTs.
	ContentType string
	// ACL is the canned access-control tag applied on writes,
	// e.g. "public-read".
	ACL string
	// StorageClass tags written objects, e.g. "STANDARD_IA".
	StorageClass string

	// PresignExpires bounds presigned URL validity. Zero means
	// DefaultPresignExpires.
	PresignExpires time.Duration

	// Logger receives debug-level operation logs. Nil disables logging.
	Logger *zerolog.Logger
}

// merge layers the non-zero fields of o2 over o.
func (o Options) merge(o2 Options) Options {
	if o2.AccessKeyID != "" {
		o.AccessKeyID = o2.AccessKeyID
	}
	if o2.SecretAccessKey != "" {
		o.SecretAccessKey = o2.SecretAccessKey
	}
	if o2.SessionToken != "" {
		o.SessionToken = o2.SessionToken
	}
	if o2.Bucket != "" {
		o.Bucket = o2.Bucket
	}
	if o2.Region != "" {
		o.Region = o2.Region
	}
	if o2.Endpoint != "" {
		o.Endpoint = o2.Endpoint
	}
	if o2.PathStyle {
		o.PathStyle = true
	}
	if o2.ContentType != "" {
		o.ContentType = o2.ContentType
	}
	if o2.ACL != "" {
		o.ACL = o2.ACL
	}
	if o2.StorageClass != "" {
		o.StorageClass = o2.StorageClass
	}
	if o2.PresignExpires != 0 {
		o.PresignExpires = o2.PresignExpires
	}
	if o2.Logger != nil {
		o.Logger = o2.Logger
	}
	return o
}

// Client is the façade over one bucket of an S3-compatible backend. It holds
// no per-object state; File references it is asked for are immutable values.
type Client struct {
	api      ObjectAPI
	presign  Presigner
	defaults Options
	log      zerolog.Logger
}

// New connects a Client, using static credentials when provided and falling
// back to the ambient AWS credential chain otherwise.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3file: Bucket is required")
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKeyID != "" || opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3file: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	c := NewFromAPI(client, s3.NewPresignClient(client), opts)
	c.log.Debug().Str("bucket", opts.Bucket).Str("endpoint", opts.Endpoint).Msg("connected S3 client")
	return c, nil
}

// NewFromAPI builds a Client on an explicit transport, letting callers plug
// in pooled clients or alternative backends. presigner may be nil when the
// backend cannot sign URLs; Presign then fails.
func NewFromAPI(api ObjectAPI, presigner Presigner, opts Options) *Client {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{api: api, presign: presigner, defaults: opts, log: log}
}

// File returns an immutable reference to the object at key. Per-call opts
// are merged over the client defaults.
func (c *Client) File(key string, opts ...Options) *File {
	merged := c.defaults
	for _, o := range opts {
		merged = merged.merge(o)
	}
	return &File{client: c, key: key, opts: merged, rng: entire}
}

// Write uploads data to path and reports the number of bytes written.
func (c *Client) Write(ctx context.Context, path string, data any, opts ...Options) (int64, error) {
	return c.File(path, opts...).Write(ctx, data)
}

// Delete removes the object at path.
func (c *Client) Delete(ctx context.Context, path string, opts ...Options) error {
	return c.File(path, opts...).Delete(ctx)
}

// Unlink is an alias for Delete.
func (c *Client) Unlink(ctx context.Context, path string, opts ...Options) error {
	return c.Delete(ctx, path, opts...)
}

// Exists reports whether the object at path exists.
func (c *Client) Exists(ctx context.Context, path string, opts ...Options) (bool, error) {
	return c.File(path, opts...).Exists(ctx)
}

// Size returns the object's size in bytes.
func (c *Client) Size(ctx context.Context, path string, opts ...Options) (int64, error) {
	return c.File(path, opts...).Size(ctx)
}

// Stat returns the object's metadata.
func (c *Client) Stat(ctx context.Context, path string, opts ...Options) (Stats, error) {
	return c.File(path, opts...).Stat(ctx)
}

// Presign issues a signed URL for the object at path.
func (c *Client) Presign(ctx context.Context, path string, opts PresignOptions, clientOpts ...Options) (string, error) {
	return c.File(path, clientOpts...).Presign(ctx, opts)
}
