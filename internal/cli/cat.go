package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type CatFlags struct {
	// Range is a "begin:end" byte window; the end may be omitted.
	Range string
}

// Cat streams an object's bytes to stdout.
func Cat(flags CatFlags, key string) {
	ctx := context.Background()
	client := newClient(ctx)

	f := client.File(key)
	if flags.Range != "" {
		begin, end, err := parseRange(flags.Range)
		if err != nil {
			Logger.Fatal().Err(err).Msg("parse range")
		}
		f = f.Slice(begin, end)
	}

	for chunk, err := range f.Stream(ctx) {
		if err != nil {
			Logger.Fatal().Err(err).Msg("read object")
		}
		if _, err := os.Stdout.Write(chunk); err != nil {
			Logger.Fatal().Err(err).Msg("write to stdout")
		}
	}
}

// parseRange understands "begin:end" and "begin:" windows; the end is
// exclusive.
func parseRange(s string) (int64, int64, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("range %q: want begin:end", s)
	}
	begin, err := strconv.ParseInt(from, 10, 64)
	if err != nil || begin < 0 {
		return 0, 0, fmt.Errorf("range %q: invalid begin", s)
	}
	if to == "" {
		return begin, -1, nil
	}
	end, err := strconv.ParseInt(to, 10, 64)
	if err != nil || end < begin {
		return 0, 0, fmt.Errorf("range %q: invalid end", s)
	}
	return begin, end, nil
}
