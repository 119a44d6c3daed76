// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml, optionally overridden by NEXTBUS_*
// environment variables (a .env file in the working directory is honoured),
// and validated using struct tags.
package config
