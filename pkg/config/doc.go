// Package config loads typed configuration structs from environment
// variables, with an optional .env file for local development.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the .env
// file is read once per process, then env.Parse fills any struct annotated
// with `env` tags. Each struct type is parsed at most once and cached, so
// packages can call Load for their own config without coordinating.
//
// Usage:
//
//	type serverConfig struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg serverConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
