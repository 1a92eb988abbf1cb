package s3file

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultPresignExpires is the canonical validity window for presigned URLs.
const DefaultPresignExpires = time.Hour

// PresignOptions select the operation a presigned URL authorizes.
type PresignOptions struct {
	// Method is the HTTP method the URL is valid for: GET, HEAD, PUT or
	// DELETE. Defaults to GET.
	Method string
	// Expires bounds the URL's validity. Zero falls back to the File's
	// PresignExpires option, then DefaultPresignExpires.
	Expires time.Duration
	// ContentType and ACL are carried on PUT signatures only.
	ContentType string
	ACL         string
}

// Presign issues a signed, time-limited URL authorizing opts.Method against
// this object. The result is opaque; no local validation is performed.
func (f *File) Presign(ctx context.Context, opts PresignOptions) (string, error) {
	if f.client.presign == nil {
		return "", &BackendError{Op: "presign", Key: f.key, Err: errors.New("backend does not support presigning")}
	}

	expires := opts.Expires
	if expires <= 0 {
		expires = f.opts.PresignExpires
	}
	if expires <= 0 {
		expires = DefaultPresignExpires
	}
	withExpiry := s3.WithPresignExpires(expires)

	bucket := aws.String(f.opts.Bucket)
	key := aws.String(f.key)

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	switch method {
	case http.MethodGet:
		req, err := f.client.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: bucket, Key: key}, withExpiry)
		if err != nil {
			return "", mapError("presign", f.key, err)
		}
		return req.URL, nil

	case http.MethodHead:
		req, err := f.client.presign.PresignHeadObject(ctx, &s3.HeadObjectInput{Bucket: bucket, Key: key}, withExpiry)
		if err != nil {
			return "", mapError("presign", f.key, err)
		}
		return req.URL, nil

	case http.MethodPut:
		input := &s3.PutObjectInput{Bucket: bucket, Key: key}
		contentType := opts.ContentType
		if contentType == "" {
			contentType = f.opts.ContentType
		}
		if contentType != "" {
			input.ContentType = aws.String(contentType)
		}
		acl := opts.ACL
		if acl == "" {
			acl = f.opts.ACL
		}
		if acl != "" {
			input.ACL = types.ObjectCannedACL(acl)
		}
		if f.opts.StorageClass != "" {
			input.StorageClass = types.StorageClass(f.opts.StorageClass)
		}
		req, err := f.client.presign.PresignPutObject(ctx, input, withExpiry)
		if err != nil {
			return "", mapError("presign", f.key, err)
		}
		return req.URL, nil

	case http.MethodDelete:
		req, err := f.client.presign.PresignDeleteObject(ctx, &s3.DeleteObjectInput{Bucket: bucket, Key: key}, withExpiry)
		if err != nil {
			return "", mapError("presign", f.key, err)
		}
		return req.URL, nil
	}

	return "", &UnsupportedMethodError{Method: opts.Method}
}
