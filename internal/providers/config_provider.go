package providers

import (
	"calsurf/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var defaultTimeSources = []string{
	"https://worldtimeapi.org/api/ip",
	"https://timeapi.io/api/Time/current/zone?timeZone=UTC",
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("trueTime.sources", defaultTimeSources)
	v.SetDefault("trueTime.timeout", 5*time.Second)
	v.SetDefault("trueTime.deadZone", 30*time.Second)
	v.SetDefault("goals.calories", 2000)

	_ = v.BindEnv("logger.level", "CALSURF_LOG_LEVEL")
	_ = v.BindEnv("persistence.saveInterval", "CALSURF_SAVE_INTERVAL")
	_ = v.BindEnv("cache.enabled", "CALSURF_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "CALSURF_CACHE_SIZE")
	_ = v.BindEnv("trueTime.timezone", "CALSURF_TIMEZONE")
	_ = v.BindEnv("trueTime.timeout", "CALSURF_TIME_TIMEOUT")
	_ = v.BindEnv("trueTime.deadZone", "CALSURF_DEAD_ZONE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CalSurfDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
