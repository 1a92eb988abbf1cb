package main

import (
	"time"

	"s3file/internal/cli"

	"github.com/spf13/cobra"
)

var verbose bool
var rootCmd = &cobra.Command{
	Use:   "s3file",
	Short: "S3file is a tool for working with S3-compatible object storage.",
	Long:  `S3file is a tool for working with S3-compatible object storage. It reads connection details from the environment and lets you list, read, write, and sign objects.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.SetVerbose(verbose)
	},
}

var lsCmdFlags cli.LsFlags
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List objects in the bucket.",
	Long:  `List objects in the bucket. Use a prefix and delimiter to browse the key space like a directory tree.`,
	Run: func(cmd *cobra.Command, args []string) {
		cli.Ls(lsCmdFlags)
	},
}

var catCmdFlags cli.CatFlags
var catCmd = &cobra.Command{
	Use:   "cat [key]",
	Short: "Print an object's content to stdout.",
	Long:  `Print an object's content to stdout. A byte range limits the output to a window of the object.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Cat(catCmdFlags, args[0])
	},
}

var putCmdFlags cli.PutFlags
var putCmd = &cobra.Command{
	Use:   "put [key] [file]",
	Short: "Upload a file to the bucket.",
	Long:  `Upload a file to the bucket. Pass "-" as the file to read from stdin.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Put(putCmdFlags, args[0], args[1])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [key1] [key2] ...",
	Short: "Delete objects from the bucket.",
	Long:  `Delete objects from the bucket. Deleting a key that does not exist succeeds.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Rm(args)
	},
}

var statCmd = &cobra.Command{
	Use:   "stat [key]",
	Short: "Print an object's metadata.",
	Long:  `Print an object's metadata. Shows the size, content type, etag, and last-modified time.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Stat(args[0])
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists [key]",
	Short: "Check whether an object exists.",
	Long:  `Check whether an object exists. Exits with status 1 when the key is not found.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Exists(args[0])
	},
}

var presignCmdFlags cli.PresignFlags
var presignCmd = &cobra.Command{
	Use:   "presign [key]",
	Short: "Generate a signed URL for an object.",
	Long:  `Generate a signed URL for an object. The URL grants temporary access without credentials.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Presign(presignCmdFlags, args[0])
	},
}

func main() {
	rootCmd.AddCommand(lsCmd, catCmd, putCmd, rmCmd, statCmd, existsCmd, presignCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// ===========
	// lsCmd flags
	// ===========
	lsCmd.Flags().StringVarP(
		&lsCmdFlags.Prefix, "prefix", "p", "", "Only list keys starting with this prefix",
	)
	lsCmd.Flags().StringVarP(
		&lsCmdFlags.Delimiter, "delimiter", "d", "", "Group keys by this delimiter, e.g. '/'",
	)
	lsCmd.Flags().Int32Var(
		&lsCmdFlags.MaxKeys, "max-keys", 0, "Maximum number of keys per page",
	)
	lsCmd.Flags().BoolVar(
		&lsCmdFlags.All, "all", false, "Follow continuation tokens through every page",
	)

	// ============
	// catCmd flags
	// ============
	catCmd.Flags().StringVarP(
		&catCmdFlags.Range, "range", "r", "", "Byte window as 'begin:end' (end exclusive) or 'begin:'",
	)

	// ============
	// putCmd flags
	// ============
	putCmd.Flags().StringVarP(
		&putCmdFlags.Type, "type", "t", "", "Content type of the uploaded object",
	)
	putCmd.Flags().StringVar(
		&putCmdFlags.ACL, "acl", "", "Canned ACL, e.g. 'public-read'",
	)
	putCmd.Flags().StringVar(
		&putCmdFlags.StorageClass, "storage-class", "", "Storage class, e.g. 'STANDARD_IA'",
	)

	// ================
	// presignCmd flags
	// ================
	presignCmd.Flags().StringVarP(
		&presignCmdFlags.Method, "method", "m", "GET", "HTTP method the URL is valid for (GET, PUT, HEAD, DELETE)",
	)
	presignCmd.Flags().DurationVarP(
		&presignCmdFlags.Expires, "expires", "e", time.Hour, "How long the URL stays valid",
	)
	presignCmd.Flags().StringVarP(
		&presignCmdFlags.Type, "type", "t", "", "Content type a PUT URL is bound to",
	)
	presignCmd.Flags().StringVar(
		&presignCmdFlags.ACL, "acl", "", "Canned ACL a PUT URL is bound to",
	)

	rootCmd.Execute()
}
