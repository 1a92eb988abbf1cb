package s3file

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
)

// streamChunkSize is the read granularity of Stream.
const streamChunkSize = 64 * 1024

// Stream returns a lazy, single-use, forward-only sequence of byte chunks.
// The GET is issued when iteration begins; a transport failure, including
// one on the initial request, surfaces as the error element at the point of
// iteration rather than synchronously. A response with no body completes
// immediately. Breaking out of the loop releases the underlying transport
// body. The sequence is strictly single-consumer; iterating it twice issues
// two independent GETs.
func (f *File) Stream(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		out, err := f.get(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		if out.Body == nil {
			return
		}
		defer out.Body.Close()

		buf := make([]byte, streamChunkSize)
		for {
			n, err := out.Body.Read(buf)
			if n > 0 {
				// buf is reused; the consumer owns each chunk outright.
				if !yield(bytes.Clone(buf[:n]), nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, mapError("read", f.key, err))
				return
			}
		}
	}
}

// Bytes fetches the object's window and fully drains it into an exclusively
// owned buffer. Each call is an independent GET; nothing is cached between
// calls, so a second call observes the backend's current state.
func (f *File) Bytes(ctx context.Context) ([]byte, error) {
	out, err := f.get(ctx)
	if err != nil {
		return nil, err
	}
	if out.Body == nil {
		return nil, nil
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, mapError("read", f.key, err)
	}
	return data, nil
}

// Text fetches the object's window as a string.
func (f *File) Text(ctx context.Context) (string, error) {
	data, err := f.Bytes(ctx)
	return string(data), err
}

// JSON fetches the object's window and unmarshals it into v.
func (f *File) JSON(ctx context.Context, v any) error {
	data, err := f.Bytes(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
