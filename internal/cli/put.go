package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"s3file/pkg/s3file"
)

type PutFlags struct {
	Type         string
	ACL          string
	StorageClass string
}

// Put uploads a local file, or stdin when path is "-".
func Put(flags PutFlags, key, path string) {
	ctx := context.Background()
	client := newClient(ctx)

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		Logger.Fatal().Err(err).Str("path", path).Msg("read input")
	}

	n, err := client.Write(ctx, key, data, s3file.Options{
		ContentType:  flags.Type,
		ACL:          flags.ACL,
		StorageClass: flags.StorageClass,
	})
	if err != nil {
		Logger.Fatal().Err(err).Str("key", key).Msg("write object")
	}
	fmt.Printf("wrote %d bytes to %s\n", n, key)
}
