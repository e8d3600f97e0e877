package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/wrpcd/wrpcd/log"
	"github.com/wrpcd/wrpcd/network"
	"github.com/wrpcd/wrpcd/rpc/wrpc"
)

const (
	// FlagCfg flag used for config aka cfg
	FlagCfg = "cfg"
	// FlagNetwork overrides Network
	FlagNetwork = "network"
	// FlagRPCListenBorsh overrides WRPC.Borsh
	FlagRPCListenBorsh = "rpclisten-borsh"
	// FlagRPCListenJSON overrides WRPC.JSON
	FlagRPCListenJSON = "rpclisten-json"

	envPrefix = "WRPCD"
)

// decodeHook lets text fields (network types, listen addresses) be decoded
// from strings. Slices can be given in env vars separated by ",".
var decodeHook = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.TextUnmarshallerHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
))

// Config represents the full configuration of the node's RPC front
type Config struct {
	Network   network.Type `mapstructure:"Network"`
	WRPC      WRPCConfig   `mapstructure:"WRPC"`
	Log       log.Config   `mapstructure:"Log"`
	Telemetry Telemetry    `mapstructure:"Telemetry"`
}

// WRPCConfig holds the listen address of every wRPC encoding. An unset
// address disables the listener.
type WRPCConfig struct {
	Borsh wrpc.NetAddressValue `mapstructure:"Borsh"`
	JSON  wrpc.NetAddressValue `mapstructure:"JSON"`
}

// Listen returns the configured address for the encoding
func (c WRPCConfig) Listen(encoding wrpc.Encoding) wrpc.NetAddressValue {
	switch encoding {
	case wrpc.Borsh:
		return c.Borsh
	case wrpc.SerdeJSON:
		return c.JSON
	default:
		return wrpc.NetAddressValue{}
	}
}

type Telemetry struct {
	PrometheusAddr string `mapstructure:"PrometheusAddr"`
}

// Load loads the configuration based on the cli context
func Load(ctx *cli.Context) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(DefaultValues)); err != nil {
		return nil, err
	}

	if configFilePath := ctx.String(FlagCfg); configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)

		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file %s: %w", configFilePath, err)
			}
			log.Infof("config file %s not found, using defaults", configFilePath)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	// keys without a default are only seen by Unmarshal when bound explicitly
	for _, key := range []string{"WRPC.Borsh", "WRPC.JSON"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := applyFlags(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyFlags(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet(FlagNetwork) {
		if err := cfg.Network.UnmarshalText([]byte(ctx.String(FlagNetwork))); err != nil {
			return fmt.Errorf("invalid --%s: %w", FlagNetwork, err)
		}
	}

	listeners := map[string]*wrpc.NetAddressValue{
		FlagRPCListenBorsh: &cfg.WRPC.Borsh,
		FlagRPCListenJSON:  &cfg.WRPC.JSON,
	}
	for flag, value := range listeners {
		if !ctx.IsSet(flag) {
			continue
		}
		if err := value.UnmarshalText([]byte(ctx.String(flag))); err != nil {
			return fmt.Errorf("invalid --%s: %w", flag, err)
		}
	}

	return nil
}
