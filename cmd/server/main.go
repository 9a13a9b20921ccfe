package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/watchroom/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	searchResultLimit = configVar[int]{
		envKey:       "SEARCH_RESULT_LIMIT",
		flagKey:      "search-result-limit",
		defaultValue: 10,
	}
	searchMaxSeconds = configVar[int]{
		envKey:       "SEARCH_MAX_SECONDS",
		flagKey:      "search-max-seconds",
		defaultValue: 7200,
	}
	searchCacheTTL = configVar[int]{
		envKey:       "SEARCH_CACHE_TTL",
		flagKey:      "search-cache-ttl",
		defaultValue: 300,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(searchResultLimit.flagKey, searchResultLimit.defaultValue, "Maximum number of search results returned")
	pflag.Int(searchMaxSeconds.flagKey, searchMaxSeconds.defaultValue, "Maximum duration of a search result in seconds")
	pflag.Int(searchCacheTTL.flagKey, searchCacheTTL.defaultValue, "Search cache TTL in seconds")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host for the search cache (empty disables caching)")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(searchResultLimit.flagKey, searchResultLimit.envKey)
	viper.BindEnv(searchMaxSeconds.flagKey, searchMaxSeconds.envKey)
	viper.BindEnv(searchCacheTTL.flagKey, searchCacheTTL.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	return &app.AppConfig{
		Host:              viper.GetString(host.flagKey),
		Port:              viper.GetInt(port.flagKey),
		LogLevel:          viper.GetString(logLevel.flagKey),
		SearchResultLimit: viper.GetInt(searchResultLimit.flagKey),
		SearchMaxSeconds:  viper.GetInt(searchMaxSeconds.flagKey),
		SearchCacheTTL:    viper.GetInt(searchCacheTTL.flagKey),
		RedisHost:         viper.GetString(redisHost.flagKey),
		RedisPort:         viper.GetInt(redisPort.flagKey),
		RedisPassword:     viper.GetString(redisPassword.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
