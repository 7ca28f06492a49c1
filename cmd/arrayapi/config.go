package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	configFileName = "arrayapi"
	configFileType = "yaml"
	envPrefix      = "ARRAYAPI"

	cfgKeyFormat   = "format"
	cfgKeyLogLevel = "log_level"

	defaultFormat   = formatText
	defaultLogLevel = "warn"
)

// loadConfig reads arrayapi.yaml from configDir, or the current directory
// when configDir is empty. Environment variables ARRAYAPI_FORMAT and
// ARRAYAPI_LOG_LEVEL override the file. A missing file is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFormat, defaultFormat)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if configDir == "" {
		configDir = "."
	}
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
