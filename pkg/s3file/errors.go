package s3file

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// ErrNotFound reports that the referenced object does not exist.
var ErrNotFound = errors.New("object not found")

// BackendError wraps a transport or service failure with the operation and
// key it occurred on. The original error remains reachable through Unwrap.
type BackendError struct {
	Op   string
	Key  string
	Code string
	Err  error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("s3file: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("s3file: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// UnsupportedPayloadError reports a write payload of an unrecognized shape.
type UnsupportedPayloadError struct {
	Payload any
}

func (e *UnsupportedPayloadError) Error() string {
	return fmt.Sprintf("s3file: unsupported payload type %T", e.Payload)
}

// UnsupportedMethodError reports a presign request for an HTTP method that
// has no signable command.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("s3file: cannot presign method %q", e.Method)
}

// mapError classifies a backend failure. Not-found class responses collapse
// to ErrNotFound so callers can test with errors.Is; everything else is
// wrapped in a BackendError with its diagnostic detail intact.
func mapError(op, key string, err error) error {
	if err == nil {
		return nil
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return notFound(op, key)
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return notFound(op, key)
	}

	var code string
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
		switch strings.ToLower(code) {
		case "nosuchkey", "notfound", "404":
			return notFound(op, key)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return notFound(op, key)
	}

	return &BackendError{Op: op, Key: key, Code: code, Err: err}
}

func notFound(op, key string) error {
	return fmt.Errorf("s3file: %s %q: %w", op, key, ErrNotFound)
}
