package config

import "time"

type Config struct {
	Server    ServerConfig
	Transport TransportConfig
	Engine    EngineConfig
	LogLevel  string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Address string
	// AllowedOrigin is matched against the Origin header during the
	// websocket handshake. "*" disables the check.
	AllowedOrigin string `mapstructure:"allowedOrigin"`
}

type TransportConfig struct {
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

type EngineConfig struct {
	// StatsInterval controls the periodic queue/room report. Zero disables it.
	StatsInterval time.Duration `mapstructure:"statsInterval"`
}
