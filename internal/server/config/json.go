package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
	"github.com/dmitrijs2005/filevault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	RedisAddr             string         `json:"redis_addr"`
	NatsURL               string         `json:"nats_url"`
	FolderPath            string         `json:"folder_path"`
	BlobBackend           string         `json:"blob_backend"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded and the Config is left untouched.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.NatsURL = c.NatsURL
	config.FolderPath = c.FolderPath
	config.BlobBackend = c.BlobBackend
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
