// Package config loads typed configuration structs from environment
// variables. It wraps caarlos0/env for struct-tag parsing and loads a .env
// file once per process via godotenv, so local development works without
// exporting anything.
//
// Each config type is parsed once and cached; subsequent Load calls for the
// same type return the cached value.
//
//	type APIConfig struct {
//	    BaseURL string        `env:"VLOG_API_BASE_URL,required"`
//	    Timeout time.Duration `env:"VLOG_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg APIConfig
//	if err := config.Load(&cfg); err != nil { … }
package config
