package s3file

import (
	"bytes"
	"io"
	"net/http"
)

type payloadKind uint8

const (
	payloadText payloadKind = iota
	payloadBytes
	payloadRequest
	payloadResponse
	payloadBlob
)

// Blob pairs a byte body with an intrinsic media type, for callers that
// carry typed binary content without an HTTP envelope.
type Blob struct {
	Data []byte
	Type string
}

// payload is the canonical form of a write body: classified once at the
// boundary, never re-inspected downstream.
type payload struct {
	kind payloadKind
	body []byte
	// contentType is the payload's own declared type. It is only a
	// fallback; an explicit per-call content type wins.
	contentType string
}

// normalizePayload converts the supported payload shapes into a canonical
// byte body. Request, response, and blob payloads have their full body
// extracted and contribute their declared content type. Any other shape
// fails with an UnsupportedPayloadError.
func normalizePayload(data any) (payload, error) {
	switch v := data.(type) {
	case string:
		return payload{kind: payloadText, body: []byte(v)}, nil
	case []byte:
		return payload{kind: payloadBytes, body: bytes.Clone(v)}, nil
	case Blob:
		return payload{kind: payloadBlob, body: bytes.Clone(v.Data), contentType: v.Type}, nil
	case *Blob:
		if v == nil {
			break
		}
		return payload{kind: payloadBlob, body: bytes.Clone(v.Data), contentType: v.Type}, nil
	case *http.Request:
		if v == nil {
			break
		}
		body, err := drainBody(v.Body)
		if err != nil {
			return payload{}, err
		}
		return payload{kind: payloadRequest, body: body, contentType: v.Header.Get("Content-Type")}, nil
	case *http.Response:
		if v == nil {
			break
		}
		body, err := drainBody(v.Body)
		if err != nil {
			return payload{}, err
		}
		return payload{kind: payloadResponse, body: body, contentType: v.Header.Get("Content-Type")}, nil
	}
	return payload{}, &UnsupportedPayloadError{Payload: data}
}

func drainBody(rc io.ReadCloser) ([]byte, error) {
	if rc == nil {
		return nil, nil
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
