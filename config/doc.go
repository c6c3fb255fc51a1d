// Package config loads SDK configuration from multiple sources (the per-user
// YAML credentials file, environment variables, caller overrides) with
// precedence: overrides > environment variables > credentials file > defaults.
// It also holds the request payload limits imposed by the API.
package config
