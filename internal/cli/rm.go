package cli

import (
	"context"
	"fmt"
)

// Rm deletes each named object. Deletion of a missing key succeeds.
func Rm(keys []string) {
	ctx := context.Background()
	client := newClient(ctx)

	for _, key := range keys {
		if err := client.Delete(ctx, key); err != nil {
			Logger.Fatal().Err(err).Str("key", key).Msg("delete object")
		}
		fmt.Printf("deleted %s\n", key)
	}
}
