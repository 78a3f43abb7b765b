// Package config loads runtime configuration for the appship CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or --config.
//  3. Command-line flags, bound by the CLI layer, which override earlier
//     values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.appmarket.dev/v1",
//	  "request_timeout": "30s",
//	  "auth_profile": "default",
//	  "issuer_id": "57246542-96fe-1a63-e053-0824d011072a",
//	  "key_id": "2X9R4HXF34",
//	  "private_key_path": "/secrets/AuthKey_2X9R4HXF34.p8",
//	  "keystore_path": "/home/me/.appship/appship.db",
//	  "chunk_parallelism": 4,
//	  "max_retries": 3,
//	  "poll_interval": "10s",
//	  "poll_timeout": "10m",
//	  "log_level": "info"
//	}
//
// Only the keys present in the file override defaults; missing or
// zero-valued keys keep earlier values.
//
// Note: this package does not read environment variables; use the JSON file
// or flags to configure values.
package config
