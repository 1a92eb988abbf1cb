// Package cli implements the s3file command-line interface: thin wrappers
// around the library that resolve connection details from the environment.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/gnitoahc/go-dotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"s3file/pkg/s3file"
)

// Logger writes human-readable logs to stderr.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).With().Timestamp().Logger()

// SetVerbose lowers the log level to debug.
func SetVerbose(verbose bool) {
	if verbose {
		Logger = Logger.Level(zerolog.DebugLevel)
	}
}

// envOptions resolves connection options from .env plus the process
// environment. A missing secret key is prompted for on the terminal.
func envOptions() (s3file.Options, error) {
	dotenv.Load(".env")

	opts := s3file.Options{
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("S3_SESSION_TOKEN"),
		Bucket:          os.Getenv("S3_BUCKET"),
		Region:          os.Getenv("S3_REGION"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		Logger:          &Logger,
	}
	if v := os.Getenv("S3_PATH_STYLE"); v != "" {
		pathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("parse S3_PATH_STYLE: %w", err)
		}
		opts.PathStyle = pathStyle
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey == "" {
		fmt.Print("Secret access key: ")
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return opts, err
		}
		opts.SecretAccessKey = string(secret)
	}

	return opts, nil
}

func newClient(ctx context.Context) *s3file.Client {
	opts, err := envOptions()
	if err != nil {
		Logger.Fatal().Err(err).Msg("resolve configuration")
	}
	client, err := s3file.New(ctx, opts)
	if err != nil {
		Logger.Fatal().Err(err).Msg("connect client")
	}
	return client
}
