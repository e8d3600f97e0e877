package config

import (
	"bytes"

	"github.com/spf13/viper"
)

// DefaultValues is the default configuration. wRPC listeners are disabled
// unless WRPC.Borsh or WRPC.JSON is set.
const DefaultValues = `
Network = "mainnet"

[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]

[Telemetry]
PrometheusAddr = ""
`

// Default parses the default configuration values.
func Default() (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(bytes.NewBufferString(DefaultValues)); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, err
	}
	return &cfg, nil
}
