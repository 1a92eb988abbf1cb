package cli

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Stat prints an object's metadata.
func Stat(key string) {
	ctx := context.Background()
	client := newClient(ctx)

	st, err := client.Stat(ctx, key)
	if err != nil {
		Logger.Fatal().Err(err).Str("key", key).Msg("stat object")
	}

	fmt.Printf("key:           %s\n", key)
	fmt.Printf("size:          %d\n", st.Size)
	fmt.Printf("content-type:  %s\n", st.ContentType)
	fmt.Printf("etag:          %s\n", st.ETag)
	fmt.Printf("last-modified: %s\n", st.LastModified.UTC().Format(time.RFC3339))
}

// Exists reports whether an object exists, exiting 1 when it does not.
func Exists(key string) {
	ctx := context.Background()
	client := newClient(ctx)

	ok, err := client.Exists(ctx, key)
	if err != nil {
		Logger.Fatal().Err(err).Str("key", key).Msg("check object")
	}
	if !ok {
		fmt.Printf("%s: not found\n", key)
		os.Exit(1)
	}
	fmt.Printf("%s: exists\n", key)
}
