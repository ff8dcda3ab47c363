package infra

import (
	"fmt"

	"github.com/spf13/viper"
)

// InitConfig loads the service configuration file and enables environment
// variable overrides.
func InitConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
