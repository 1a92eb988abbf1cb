package cli

import (
	"context"
	"fmt"
	"time"

	"s3file/pkg/s3file"
)

type PresignFlags struct {
	Method  string
	Expires time.Duration
	Type    string
	ACL     string
}

// Presign prints a signed URL for the given key.
func Presign(flags PresignFlags, key string) {
	ctx := context.Background()
	client := newClient(ctx)

	url, err := client.Presign(ctx, key, s3file.PresignOptions{
		Method:      flags.Method,
		Expires:     flags.Expires,
		ContentType: flags.Type,
		ACL:         flags.ACL,
	})
	if err != nil {
		Logger.Fatal().Err(err).Str("key", key).Msg("presign object")
	}
	fmt.Println(url)
}
