package config

import "time"

// Config holds the application configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// APIURL points at an existing API instead of the in-process one
	APIURL      string
	ComputeMode string
	BridgeWait  time.Duration
	Width       int
	Height      int
	Debug       bool

	RateLimit     int
	RateBurst     int
	NoCompression bool
}

// Default returns the configuration used when no flags are given
func Default() Config {
	return Config{
		Host:        "127.0.0.1",
		Port:        8000,
		Version:     "dev",
		ComputeMode: "auto",
		BridgeWait:  2 * time.Second,
		Width:       1180,
		Height:      820,
		RateLimit:   5,
		RateBurst:   10,
	}
}
