// Package env wraps viper so environment access has one home and defaults
// are registered next to the code that reads them.
package env

import (
	"github.com/spf13/viper"
)

func init() {
	viper.AutomaticEnv()
}

// SetDefault registers a default for the given key if one has not been set yet
func SetDefault(key string, def interface{}) {
	if !viper.IsSet(key) {
		viper.SetDefault(key, def)
	}
}

// GetString returns the string value of the given environment variable
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns the bool value of the given environment variable
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetInt returns the int value of the given environment variable
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetInt64 returns the int64 value of the given environment variable
func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}
