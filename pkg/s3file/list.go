package s3file

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ListInput carries the pass-through filters for one listing page.
type ListInput struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	StartAfter        string
	EncodingType      string
	MaxKeys           int32
	FetchOwner        bool
}

// ListResult mirrors one ListObjectsV2 page. Fields are populated only when
// the backend returned them, so downstream code can use presence checks
// instead of value checks.
type ListResult struct {
	Name                  *string        `json:"name,omitempty"`
	Prefix                *string        `json:"prefix,omitempty"`
	Delimiter             *string        `json:"delimiter,omitempty"`
	ContinuationToken     *string        `json:"continuationToken,omitempty"`
	NextContinuationToken *string        `json:"nextContinuationToken,omitempty"`
	StartAfter            *string        `json:"startAfter,omitempty"`
	EncodingType          *string        `json:"encodingType,omitempty"`
	MaxKeys               *int32         `json:"maxKeys,omitempty"`
	KeyCount              *int32         `json:"keyCount,omitempty"`
	IsTruncated           *bool          `json:"isTruncated,omitempty"`
	CommonPrefixes        []CommonPrefix `json:"commonPrefixes,omitempty"`
	Contents              []ListObject   `json:"contents,omitempty"`
}

// CommonPrefix is a rolled-up key group under the requested delimiter.
type CommonPrefix struct {
	Prefix string `json:"prefix"`
}

// Owner identifies the owning account of a listed object.
type Owner struct {
	ID          *string `json:"id,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

// RestoreStatus reports archive-restoration progress for a listed object.
type RestoreStatus struct {
	IsRestoreInProgress bool    `json:"isRestoreInProgress"`
	RestoreExpiryDate   *string `json:"restoreExpiryDate,omitempty"`
}

// ListObject is one normalized content entry. Timestamps are ISO-8601
// strings.
type ListObject struct {
	Key               string         `json:"key"`
	ETag              string         `json:"eTag"`
	Size              *int64         `json:"size,omitempty"`
	LastModified      *string        `json:"lastModified,omitempty"`
	Owner             *Owner         `json:"owner,omitempty"`
	StorageClass      *string        `json:"storageClass,omitempty"`
	ChecksumAlgorithm *string        `json:"checksumAlgorithm,omitempty"`
	ChecksumType      *string        `json:"checksumType,omitempty"`
	RestoreStatus     *RestoreStatus `json:"restoreStatus,omitempty"`
}

// List fetches one page of keys. Pagination is caller-driven: while
// IsTruncated is set, pass NextContinuationToken (or the last returned key
// as StartAfter) back in to fetch the next page. No aggregation happens
// here; no page is fetched until requested.
func (c *Client) List(ctx context.Context, in *ListInput, opts ...Options) (*ListResult, error) {
	merged := c.defaults
	for _, o := range opts {
		merged = merged.merge(o)
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(merged.Bucket)}
	if in != nil {
		if in.Prefix != "" {
			input.Prefix = aws.String(in.Prefix)
		}
		if in.Delimiter != "" {
			input.Delimiter = aws.String(in.Delimiter)
		}
		if in.ContinuationToken != "" {
			input.ContinuationToken = aws.String(in.ContinuationToken)
		}
		if in.StartAfter != "" {
			input.StartAfter = aws.String(in.StartAfter)
		}
		if in.EncodingType != "" {
			input.EncodingType = types.EncodingType(in.EncodingType)
		}
		if in.MaxKeys > 0 {
			input.MaxKeys = aws.Int32(in.MaxKeys)
		}
		if in.FetchOwner {
			input.FetchOwner = aws.Bool(true)
		}
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, mapError("list", aws.ToString(input.Prefix), err)
	}
	return normalizeList(out), nil
}

// normalizeList maps a raw listing response into the sparse ListResult
// shape: absent source fields stay absent instead of appearing with zero
// values.
func normalizeList(out *s3.ListObjectsV2Output) *ListResult {
	res := &ListResult{
		Name:                  out.Name,
		Prefix:                out.Prefix,
		Delimiter:             out.Delimiter,
		ContinuationToken:     out.ContinuationToken,
		NextContinuationToken: out.NextContinuationToken,
		StartAfter:            out.StartAfter,
		MaxKeys:               out.MaxKeys,
		KeyCount:              out.KeyCount,
		IsTruncated:           out.IsTruncated,
	}
	if out.EncodingType != "" {
		res.EncodingType = aws.String(string(out.EncodingType))
	}

	for _, cp := range out.CommonPrefixes {
		res.CommonPrefixes = append(res.CommonPrefixes, CommonPrefix{Prefix: aws.ToString(cp.Prefix)})
	}

	for _, obj := range out.Contents {
		entry := ListObject{
			Key:  aws.ToString(obj.Key),
			ETag: aws.ToString(obj.ETag),
			Size: obj.Size,
		}
		if obj.LastModified != nil {
			entry.LastModified = aws.String(isoTime(*obj.LastModified))
		}
		if obj.Owner != nil {
			entry.Owner = &Owner{ID: obj.Owner.ID, DisplayName: obj.Owner.DisplayName}
		}
		if obj.StorageClass != "" {
			entry.StorageClass = aws.String(string(obj.StorageClass))
		}
		if len(obj.ChecksumAlgorithm) > 0 {
			entry.ChecksumAlgorithm = aws.String(string(obj.ChecksumAlgorithm[0]))
		}
		if obj.ChecksumType != "" {
			entry.ChecksumType = aws.String(string(obj.ChecksumType))
		}
		if obj.RestoreStatus != nil {
			rs := &RestoreStatus{IsRestoreInProgress: aws.ToBool(obj.RestoreStatus.IsRestoreInProgress)}
			if obj.RestoreStatus.RestoreExpiryDate != nil {
				rs.RestoreExpiryDate = aws.String(isoTime(*obj.RestoreStatus.RestoreExpiryDate))
			}
			entry.RestoreStatus = rs
		}
		res.Contents = append(res.Contents, entry)
	}

	return res
}

// isoTime renders a timestamp as ISO-8601. A structurally present but zero
// timestamp becomes the current time; lossy, but keeps the field usable.
func isoTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
