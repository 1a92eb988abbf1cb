package cli

import (
	"context"
	"fmt"

	"s3file/pkg/s3file"
)

type LsFlags struct {
	Prefix    string
	Delimiter string
	MaxKeys   int32
	All       bool
}

// Ls prints one listing page, or walks every page with --all.
func Ls(flags LsFlags) {
	ctx := context.Background()
	client := newClient(ctx)

	in := &s3file.ListInput{
		Prefix:    flags.Prefix,
		Delimiter: flags.Delimiter,
		MaxKeys:   flags.MaxKeys,
	}
	for {
		page, err := client.List(ctx, in)
		if err != nil {
			Logger.Fatal().Err(err).Msg("list objects")
		}

		for _, p := range page.CommonPrefixes {
			fmt.Printf("%12s  %-20s  %s\n", "PRE", "", p.Prefix)
		}
		for _, obj := range page.Contents {
			var size int64
			if obj.Size != nil {
				size = *obj.Size
			}
			var modified string
			if obj.LastModified != nil {
				modified = *obj.LastModified
			}
			fmt.Printf("%12d  %-20s  %s\n", size, modified, obj.Key)
		}

		if !flags.All || page.IsTruncated == nil || !*page.IsTruncated || page.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = *page.NextContinuationToken
	}
}
