// Package config holds the options recognized by the model builder and
// loads them from a config file, the environment and bound flags.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "PROTOMODEL"

	KeyPartialModels = "partial_models"
)

type Params struct {
	// PartialModels leaves function tables without an else branch instead of
	// completing them before finalization.
	PartialModels bool
}

func Default() Params {
	return Params{}
}

// NewViper returns a viper instance reading PROTOMODEL_* variables and, when
// configFile is not empty, that file.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault(KeyPartialModels, Default().PartialModels)
	if configFile == "" {
		return v, nil
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", configFile)
	}
	return v, nil
}

func Load(v *viper.Viper) Params {
	return Params{
		PartialModels: v.GetBool(KeyPartialModels),
	}
}
