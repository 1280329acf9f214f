package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-r string   Redis address (e.g., "localhost:6379")
//	-n string   NATS URL (e.g., "nats://localhost:4222"); empty disables jobs
//	-f string   base directory for on-disk blobs
//	-k string   blob backend, "disk" or "s3"
//	-t int      session token validity, hours
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in hours and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-n", "-f", "-k", "-t", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.NatsURL, "n", config.NatsURL, "NATS URL")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "blob folder path")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (disk or s3)")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token_validity_duration (in hours)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Hour
}
