package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"msver/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.size", 16)
	viper.SetDefault("cache.ttl", time.Hour)
	viper.SetDefault("cache.retention", 24*time.Hour)
	viper.SetDefault("httpClient.timeout", 2*time.Minute)
	viper.SetDefault("httpClient.userAgent", "msver/1.0 (+release metadata tracker)")
	viper.SetDefault("office365.interval", 5*time.Minute)
	viper.SetDefault("office365.updateHistoryUrl", "https://learn.microsoft.com/en-us/officeupdates/update-history-microsoft365-apps-by-date")
	viper.SetDefault("windows.interval", 60*time.Minute)
	viper.SetDefault("windows.startupDelay", 30*time.Second)
	viper.SetDefault("windows.enrichCount", 10)
	viper.SetDefault("windows.enrichDelay", time.Second)
	viper.SetDefault("windows.windows10.updateHistoryUrl", "https://support.microsoft.com/en-us/help/4043454")
	viper.SetDefault("windows.windows10.releaseInfoUrl", "https://learn.microsoft.com/en-us/windows/release-health/release-information")
	viper.SetDefault("windows.windows11.updateHistoryUrl", "https://support.microsoft.com/en-us/help/5006099")
	viper.SetDefault("windows.windows11.releaseInfoUrl", "https://learn.microsoft.com/en-us/windows/release-health/windows11-release-information")

	viper.BindEnv("logger.level", "MSVER_LOG_LEVEL")
	viper.BindEnv("cache.enabled", "MSVER_CACHE_ENABLED")
	viper.BindEnv("cache.size", "MSVER_CACHE_SIZE")
	viper.BindEnv("office365.enabled", "MSVER_OFFICE365_ENABLED")
	viper.BindEnv("office365.interval", "MSVER_OFFICE365_INTERVAL")
	viper.BindEnv("windows.enabled", "MSVER_WINDOWS_ENABLED")
	viper.BindEnv("windows.interval", "MSVER_WINDOWS_INTERVAL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MicrosoftVersionTracker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
