package s3file

import "context"

// The package-level operations are credential-explicit equivalents of the
// Client methods: they accept no implicit defaults, so opts must carry the
// full connection details (bucket, region/endpoint, credentials) on every
// call. Each call connects a fresh client; long-lived callers should hold a
// Client instead.

// Write uploads data to path with explicit credentials.
func Write(ctx context.Context, path string, data any, opts Options) (int64, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return 0, err
	}
	return c.Write(ctx, path, data)
}

// Delete removes the object at path with explicit credentials.
func Delete(ctx context.Context, path string, opts Options) error {
	c, err := New(ctx, opts)
	if err != nil {
		return err
	}
	return c.Delete(ctx, path)
}

// Unlink is an alias for Delete.
func Unlink(ctx context.Context, path string, opts Options) error {
	return Delete(ctx, path, opts)
}

// Exists reports whether the object at path exists, with explicit
// credentials.
func Exists(ctx context.Context, path string, opts Options) (bool, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return false, err
	}
	return c.Exists(ctx, path)
}

// Size returns the object's size in bytes, with explicit credentials.
func Size(ctx context.Context, path string, opts Options) (int64, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return 0, err
	}
	return c.Size(ctx, path)
}

// Stat returns the object's metadata, with explicit credentials.
func Stat(ctx context.Context, path string, opts Options) (Stats, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return Stats{}, err
	}
	return c.Stat(ctx, path)
}

// List fetches one listing page with explicit credentials.
func List(ctx context.Context, in *ListInput, opts Options) (*ListResult, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.List(ctx, in)
}

// Presign issues a signed URL for the object at path with explicit
// credentials.
func Presign(ctx context.Context, path string, popts PresignOptions, opts Options) (string, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return "", err
	}
	return c.Presign(ctx, path, popts)
}
