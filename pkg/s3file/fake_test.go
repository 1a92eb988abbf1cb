package s3file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeAPI is an in-memory ObjectAPI for unit tests.
type fakeAPI struct {
	objects map[string]*fakeObject

	lastPut  *s3.PutObjectInput
	lastList *s3.ListObjectsV2Input

	getErr  error
	headErr error
	bodyErr error // delivered after the object bytes while streaming
	nilBody bool

	listOut *s3.ListObjectsV2Output

	lastBody *trackingBody
}

type fakeObject struct {
	data         []byte
	contentType  string
	etag         string
	lastModified time.Time
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string]*fakeObject{}}
}

func newTestClient(api ObjectAPI, p Presigner) *Client {
	return NewFromAPI(api, p, Options{Bucket: "test-bucket"})
}

func (f *fakeAPI) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "the specified key does not exist"}
	}
	data := obj.data
	if params.Range != nil {
		var err error
		data, err = applyFakeRange(data, aws.ToString(params.Range))
		if err != nil {
			return nil, err
		}
	}
	out := &s3.GetObjectOutput{ContentLength: aws.Int64(int64(len(data)))}
	if obj.contentType != "" {
		out.ContentType = aws.String(obj.contentType)
	}
	if f.nilBody {
		return out, nil
	}
	body := &trackingBody{r: bytes.NewReader(data), err: f.bodyErr}
	f.lastBody = body
	out.Body = body
	return out, nil
}

func (f *fakeAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = params
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	etag := fmt.Sprintf("%q", fmt.Sprintf("fake-%d", len(data)))
	f.objects[aws.ToString(params.Key)] = &fakeObject{
		data:         data,
		contentType:  aws.ToString(params.ContentType),
		etag:         etag,
		lastModified: time.Now(),
	}
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

func (f *fakeAPI) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	obj, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}
	out := &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(obj.data))),
		ETag:          aws.String(obj.etag),
	}
	if !obj.lastModified.IsZero() {
		out.LastModified = aws.Time(obj.lastModified)
	}
	if obj.contentType != "" {
		out.ContentType = aws.String(obj.contentType)
	}
	return out, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeAPI) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.lastList = params
	if f.listOut != nil {
		return f.listOut, nil
	}

	prefix := aws.ToString(params.Prefix)
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{KeyCount: aws.Int32(int32(len(keys)))}
	for _, k := range keys {
		obj := f.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			ETag:         aws.String(obj.etag),
			Size:         aws.Int64(int64(len(obj.data))),
			LastModified: aws.Time(obj.lastModified),
		})
	}
	return out, nil
}

// applyFakeRange understands the "bytes=a-b" and "bytes=a-" forms the
// library emits.
func applyFakeRange(data []byte, h string) ([]byte, error) {
	spec, ok := strings.CutPrefix(h, "bytes=")
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "InvalidRange", Message: h}
	}
	from, to, _ := strings.Cut(spec, "-")
	begin, err := strconv.ParseInt(from, 10, 64)
	if err != nil || begin < 0 || begin >= int64(len(data)) {
		return nil, &smithy.GenericAPIError{Code: "InvalidRange", Message: h}
	}
	end := int64(len(data)) - 1
	if to != "" {
		end, err = strconv.ParseInt(to, 10, 64)
		if err != nil || end < begin {
			return nil, &smithy.GenericAPIError{Code: "InvalidRange", Message: h}
		}
		if end >= int64(len(data)) {
			end = int64(len(data)) - 1
		}
	}
	return data[begin : end+1], nil
}

// trackingBody records whether the consumer closed it and can inject a
// failure after the payload bytes.
type trackingBody struct {
	r      *bytes.Reader
	err    error
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF && b.err != nil {
		return n, b.err
	}
	return n, err
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

// fakePresigner records the signed commands and the expiry each carried.
type fakePresigner struct {
	calls   []string
	expires []time.Duration
}

func (p *fakePresigner) record(method string, optFns []func(*s3.PresignOptions)) time.Duration {
	var o s3.PresignOptions
	for _, fn := range optFns {
		fn(&o)
	}
	p.calls = append(p.calls, method)
	p.expires = append(p.expires, o.Expires)
	return o.Expires
}

func (p *fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	d := p.record(http.MethodGet, optFns)
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://signed.test/%s?method=GET&expires=%d", aws.ToString(params.Key), int(d.Seconds())),
		Method: http.MethodGet,
	}, nil
}

func (p *fakePresigner) PresignHeadObject(_ context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	d := p.record(http.MethodHead, optFns)
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://signed.test/%s?method=HEAD&expires=%d", aws.ToString(params.Key), int(d.Seconds())),
		Method: http.MethodHead,
	}, nil
}

func (p *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	d := p.record(http.MethodPut, optFns)
	return &v4.PresignedHTTPRequest{
		URL: fmt.Sprintf("https://signed.test/%s?method=PUT&expires=%d&type=%s&acl=%s",
			aws.ToString(params.Key), int(d.Seconds()), aws.ToString(params.ContentType), params.ACL),
		Method: http.MethodPut,
	}, nil
}

func (p *fakePresigner) PresignDeleteObject(_ context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	d := p.record(http.MethodDelete, optFns)
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://signed.test/%s?method=DELETE&expires=%d", aws.ToString(params.Key), int(d.Seconds())),
		Method: http.MethodDelete,
	}, nil
}
