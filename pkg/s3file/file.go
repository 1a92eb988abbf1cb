package s3file

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// File is an immutable reference to a remote object: a key, its effective
// options, and a byte window. It holds no backend resource; every operation
// is an independent round trip.
type File struct {
	client *Client
	key    string
	opts   Options
	rng    Range
}

// Name returns the object key.
func (f *File) Name() string { return f.key }

// Slice returns a new File narrowed to a relative byte window. begin and end
// are offsets from the current window's begin; end < 0 keeps the current
// end. The original File is never modified.
func (f *File) Slice(begin, end int64) *File {
	nf := *f
	nf.rng = f.rng.slice(begin, end)
	return &nf
}

// WithContentType returns a new File with only the content type changed; the
// byte window is preserved exactly.
func (f *File) WithContentType(contentType string) *File {
	nf := *f
	nf.opts.ContentType = contentType
	return &nf
}

// Stats describes a remote object at one point in time. It is computed fresh
// on every Stat call, never cached.
type Stats struct {
	// ContentType is empty when the backend reports none.
	ContentType  string
	ETag         string
	Size         int64
	LastModified time.Time
}

// Write uploads data and reports the number of bytes written. The payload's
// own content type is used when neither the per-call opts nor the File carry
// an explicit one.
func (f *File) Write(ctx context.Context, data any, opts ...Options) (int64, error) {
	merged := f.opts
	for _, o := range opts {
		merged = merged.merge(o)
	}

	p, err := normalizePayload(data)
	if err != nil {
		return 0, err
	}

	contentType := merged.ContentType
	if contentType == "" {
		contentType = p.contentType
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(merged.Bucket),
		Key:           aws.String(f.key),
		Body:          bytes.NewReader(p.body),
		ContentLength: aws.Int64(int64(len(p.body))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if merged.ACL != "" {
		input.ACL = types.ObjectCannedACL(merged.ACL)
	}
	if merged.StorageClass != "" {
		input.StorageClass = types.StorageClass(merged.StorageClass)
	}

	if _, err := f.client.api.PutObject(ctx, input); err != nil {
		return 0, mapError("write", f.key, err)
	}
	f.client.log.Debug().Str("key", f.key).Int("bytes", len(p.body)).Msg("wrote object")
	return int64(len(p.body)), nil
}

// Delete removes the object.
func (f *File) Delete(ctx context.Context) error {
	_, err := f.client.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.opts.Bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return mapError("delete", f.key, err)
	}
	f.client.log.Debug().Str("key", f.key).Msg("deleted object")
	return nil
}

// Unlink is an alias for Delete.
func (f *File) Unlink(ctx context.Context) error { return f.Delete(ctx) }

// Stat probes the object with a HEAD call and maps the response into Stats.
// Fields the backend omits default to "", 0, and the current time.
func (f *File) Stat(ctx context.Context) (Stats, error) {
	out, err := f.client.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.opts.Bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return Stats{}, mapError("stat", f.key, err)
	}

	st := Stats{
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: time.Now(),
	}
	if out.LastModified != nil {
		st.LastModified = *out.LastModified
	}
	return st, nil
}

// Exists issues the same probe as Stat. It is the only operation that
// downgrades a not-found condition to a boolean; any other failure, such as
// permission denied, is returned as an error.
func (f *File) Exists(ctx context.Context) (bool, error) {
	_, err := f.Stat(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Size returns Stat's size.
func (f *File) Size(ctx context.Context) (int64, error) {
	st, err := f.Stat(ctx)
	return st.Size, err
}

// get issues the GET for this reference's window.
func (f *File) get(ctx context.Context) (*s3.GetObjectOutput, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(f.opts.Bucket),
		Key:    aws.String(f.key),
	}
	if h := f.rng.header(); h != "" {
		input.Range = aws.String(h)
	}
	out, err := f.client.api.GetObject(ctx, input)
	if err != nil {
		return nil, mapError("read", f.key, err)
	}
	return out, nil
}
