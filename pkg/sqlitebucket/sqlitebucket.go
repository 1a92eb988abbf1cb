// Package sqlitebucket implements the s3file transport seam on a local
// SQLite database: a single-table object store that answers the same
// commands an S3-compatible service would. It backs hermetic tests and
// offline use; it cannot issue presigned URLs.
package sqlitebucket

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"s3file/pkg/s3file"

	_ "modernc.org/sqlite"
)

// defaultMaxKeys matches the listing page cap of the S3 protocol.
const defaultMaxKeys = 1000

// Config defines how the bucket store should be opened.
type Config struct {
	// Source is the DSN/connection string, e.g. file:objects.db?cache=shared.
	Source string
	// Driver name registered with database/sql. Defaults to "sqlite".
	Driver string
	// Table to store objects. Defaults to "objects".
	Table string
	// DB lets callers supply an existing *sql.DB connection.
	DB *sql.DB
}

// Bucket answers s3file.ObjectAPI commands from a SQLite table.
type Bucket struct {
	db     *sql.DB
	table  string
	ownsDB bool
}

var _ s3file.ObjectAPI = (*Bucket)(nil)

// Open configures the store and ensures the backing table exists.
func Open(ctx context.Context, cfg Config) (*Bucket, error) {
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.Table == "" {
		cfg.Table = "objects"
	}
	if cfg.Source == "" && cfg.DB == nil {
		return nil, errors.New("sqlitebucket: Source is required")
	}

	table, err := sanitizeName(cfg.Table)
	if err != nil {
		return nil, err
	}

	b := &Bucket{table: table}
	if cfg.DB != nil {
		b.db = cfg.DB
	} else {
		db, err := sql.Open(cfg.Driver, cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("sqlitebucket: open database: %w", err)
		}
		b.db = db
		b.ownsDB = true
	}

	createStmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		size INTEGER NOT NULL,
		etag TEXT NOT NULL,
		content_type TEXT,
		storage_class TEXT,
		last_modified TEXT NOT NULL
	)`, b.table)

	if _, err := b.db.ExecContext(ctx, createStmt); err != nil {
		if b.ownsDB {
			b.db.Close()
		}
		return nil, fmt.Errorf("sqlitebucket: create table: %w", err)
	}

	return b, nil
}

// Close releases the DB connection when owned by the bucket.
func (b *Bucket) Close() error {
	if b.db != nil && b.ownsDB {
		return b.db.Close()
	}
	return nil
}

type row struct {
	key          string
	data         []byte
	size         int64
	etag         string
	contentType  sql.NullString
	storageClass sql.NullString
	lastModified string
}

// GetObject returns the object body, honoring a byte-range header when one
// is set on the request.
func (b *Bucket) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)

	query := fmt.Sprintf(`SELECT data, size, etag, content_type, storage_class, last_modified FROM %s WHERE key = ?`, b.table)
	var r row
	err := b.db.QueryRowContext(ctx, query, key).Scan(&r.data, &r.size, &r.etag, &r.contentType, &r.storageClass, &r.lastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, noSuchKey(key)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitebucket: get object: %w", err)
	}

	data := r.data
	if params.Range != nil {
		data, err = sliceRange(r.data, aws.ToString(params.Range))
		if err != nil {
			return nil, err
		}
	}

	modified, err := parseModified(r.lastModified)
	if err != nil {
		return nil, err
	}
	out := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ETag:          aws.String(r.etag),
		LastModified:  aws.Time(modified),
	}
	if r.contentType.Valid {
		out.ContentType = aws.String(r.contentType.String)
	}
	return out, nil
}

// PutObject stores the full body, overwriting any existing object.
func (b *Bucket) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(params.Key)

	var data []byte
	if params.Body != nil {
		var err error
		data, err = io.ReadAll(params.Body)
		if err != nil {
			return nil, fmt.Errorf("sqlitebucket: read content: %w", err)
		}
	}

	etag := hashETag(data)
	now := time.Now().UTC()

	query := fmt.Sprintf(`INSERT INTO %s (key, data, size, etag, content_type, storage_class, last_modified) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data=excluded.data, size=excluded.size, etag=excluded.etag, content_type=excluded.content_type, storage_class=excluded.storage_class, last_modified=excluded.last_modified`, b.table)

	_, err := b.db.ExecContext(ctx, query,
		key,
		data,
		int64(len(data)),
		etag,
		nullIfEmpty(aws.ToString(params.ContentType)),
		nullIfEmpty(string(params.StorageClass)),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitebucket: put object: %w", err)
	}

	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

// HeadObject returns metadata without the body.
func (b *Bucket) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	key := aws.ToString(params.Key)

	query := fmt.Sprintf(`SELECT size, etag, content_type, storage_class, last_modified FROM %s WHERE key = ?`, b.table)
	var r row
	err := b.db.QueryRowContext(ctx, query, key).Scan(&r.size, &r.etag, &r.contentType, &r.storageClass, &r.lastModified)
	if errors.Is(err, sql.ErrNoRows) {
		// HEAD-style probes report the 404 class, not NoSuchKey.
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitebucket: head object: %w", err)
	}

	modified, err := parseModified(r.lastModified)
	if err != nil {
		return nil, err
	}
	out := &s3.HeadObjectOutput{
		ContentLength: aws.Int64(r.size),
		ETag:          aws.String(r.etag),
		LastModified:  aws.Time(modified),
	}
	if r.contentType.Valid {
		out.ContentType = aws.String(r.contentType.String)
	}
	return out, nil
}

// DeleteObject removes an object. Like the S3 protocol, deleting a missing
// key succeeds.
func (b *Bucket) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, b.table)
	if _, err := b.db.ExecContext(ctx, query, aws.ToString(params.Key)); err != nil {
		return nil, fmt.Errorf("sqlitebucket: delete object: %w", err)
	}
	return &s3.DeleteObjectOutput{}, nil
}

// ListObjectsV2 answers one listing page with v2 semantics: prefix and
// delimiter filtering, start-after, opaque continuation tokens, and a
// max-keys cap counting keys and common prefixes together.
func (b *Bucket) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(params.Prefix)
	delim := aws.ToString(params.Delimiter)

	maxKeys := int32(defaultMaxKeys)
	if params.MaxKeys != nil && *params.MaxKeys > 0 {
		maxKeys = *params.MaxKeys
	}

	after := aws.ToString(params.StartAfter)
	if tok := aws.ToString(params.ContinuationToken); tok != "" {
		decoded, err := decodeToken(tok)
		if err != nil {
			return nil, err
		}
		if decoded > after {
			after = decoded
		}
	}

	// Note: % and _ in the prefix act as LIKE wildcards; acceptable for
	// this backend's intended use.
	query := fmt.Sprintf(`SELECT key, size, etag, storage_class, last_modified FROM %s WHERE key LIKE ? AND key > ? ORDER BY key ASC`, b.table)
	rows, err := b.db.QueryContext(ctx, query, prefix+"%", after)
	if err != nil {
		return nil, fmt.Errorf("sqlitebucket: list objects: %w", err)
	}
	defer rows.Close()

	var (
		contents  []types.Object
		prefixes  []string
		count     int32
		lastKey   string
		truncated bool
	)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.key, &r.size, &r.etag, &r.storageClass, &r.lastModified); err != nil {
			return nil, fmt.Errorf("sqlitebucket: scan object: %w", err)
		}

		// A wildcard in the prefix can match keys it is not literally a
		// prefix of; those fall through as plain contents.
		if rest, ok := strings.CutPrefix(r.key, prefix); ok && delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				cp := prefix + rest[:i+len(delim)]
				if len(prefixes) > 0 && prefixes[len(prefixes)-1] == cp {
					lastKey = r.key
					continue
				}
				if count >= maxKeys {
					truncated = true
					break
				}
				prefixes = append(prefixes, cp)
				count++
				lastKey = r.key
				continue
			}
		}

		if count >= maxKeys {
			truncated = true
			break
		}

		modified, err := parseModified(r.lastModified)
		if err != nil {
			return nil, err
		}
		entry := types.Object{
			Key:          aws.String(r.key),
			ETag:         aws.String(r.etag),
			Size:         aws.Int64(r.size),
			LastModified: aws.Time(modified),
		}
		if r.storageClass.Valid {
			entry.StorageClass = types.ObjectStorageClass(r.storageClass.String)
		}
		contents = append(contents, entry)
		count++
		lastKey = r.key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitebucket: iterate objects: %w", err)
	}

	out := &s3.ListObjectsV2Output{
		Name:              params.Bucket,
		Prefix:            params.Prefix,
		Delimiter:         params.Delimiter,
		StartAfter:        params.StartAfter,
		ContinuationToken: params.ContinuationToken,
		MaxKeys:           aws.Int32(maxKeys),
		KeyCount:          aws.Int32(count),
		IsTruncated:       aws.Bool(truncated),
		Contents:          contents,
	}
	for _, cp := range prefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
	}
	if truncated {
		out.NextContinuationToken = aws.String(encodeToken(lastKey))
	}
	return out, nil
}

// sliceRange applies a "bytes=a-b", "bytes=a-", or "bytes=-n" header to data.
func sliceRange(data []byte, header string) ([]byte, error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, invalidRange(header)
	}

	if suffix, ok := strings.CutPrefix(spec, "-"); ok {
		n, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || n <= 0 {
			return nil, invalidRange(header)
		}
		if n > int64(len(data)) {
			n = int64(len(data))
		}
		return data[int64(len(data))-n:], nil
	}

	from, to, _ := strings.Cut(spec, "-")
	begin, err := strconv.ParseInt(from, 10, 64)
	if err != nil || begin < 0 || begin >= int64(len(data)) {
		return nil, invalidRange(header)
	}
	end := int64(len(data)) - 1
	if to != "" {
		end, err = strconv.ParseInt(to, 10, 64)
		if err != nil || end < begin {
			return nil, invalidRange(header)
		}
		if end >= int64(len(data)) {
			end = int64(len(data)) - 1
		}
	}
	return data[begin : end+1], nil
}

func parseModified(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlitebucket: parse last_modified: %w", err)
	}
	return t, nil
}

func hashETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func encodeToken(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key))
}

func decodeToken(tok string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return "", &smithy.GenericAPIError{Code: "InvalidArgument", Message: "invalid continuation token"}
	}
	return string(raw), nil
}

func noSuchKey(key string) error {
	return &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist: " + key}
}

func invalidRange(header string) error {
	return &smithy.GenericAPIError{Code: "InvalidRange", Message: "The requested range is not satisfiable: " + header}
}

func sanitizeName(name string) (string, error) {
	re := regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	if !re.MatchString(name) {
		return "", fmt.Errorf("sqlitebucket: invalid table name %q", name)
	}
	return name, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
