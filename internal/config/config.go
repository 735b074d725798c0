package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the launcher
type Config struct {
	Docker   DockerConfig
	Launcher LauncherConfig
	Logger   LoggerConfig
}

type DockerConfig struct {
	Host            string
	BuildTimeout    time.Duration
	ContainerPrefix string
	PullBaseImages  bool
}

type LauncherConfig struct {
	// HostAlias is the hostname mapped into each container so it can
	// reach services on the host machine. On Docker Desktop the name
	// resolves natively; on Linux the mapping below supplies it.
	HostAlias string

	// HostGateway is the mapping target for HostAlias, normally the
	// special "host-gateway" value understood by the daemon.
	HostGateway string

	// ContextRoot is the directory the per-target build contexts are
	// resolved against.
	ContextRoot string

	// SPARQLEndpoint is handed to the analysis containers so they know
	// where to find the triple store.
	SPARQLEndpoint string
}

type LoggerConfig struct {
	Level  string
	Format string
	Output string
}

// Load creates a Config instance from environment variables
func Load() (*Config, error) {
	return &Config{
		Docker:   loadDockerConfig(),
		Launcher: loadLauncherConfig(),
		Logger:   loadLoggerConfig(),
	}, nil
}

func loadDockerConfig() DockerConfig {
	return DockerConfig{
		Host:            getEnvOrDefault("DOCKER_HOST", "unix:///var/run/docker.sock"),
		BuildTimeout:    getEnvDurationOrDefault("LAUNCHER_BUILD_TIMEOUT", 15*time.Minute),
		ContainerPrefix: getEnvOrDefault("LAUNCHER_CONTAINER_PREFIX", "dcat-"),
		PullBaseImages:  getEnvBoolOrDefault("LAUNCHER_PULL", true),
	}
}

func loadLauncherConfig() LauncherConfig {
	return LauncherConfig{
		HostAlias:      getEnvOrDefault("LAUNCHER_HOST_ALIAS", "host.docker.internal"),
		HostGateway:    getEnvOrDefault("LAUNCHER_HOST_GATEWAY", "host-gateway"),
		ContextRoot:    getEnvOrDefault("LAUNCHER_CONTEXT_ROOT", "."),
		SPARQLEndpoint: getEnvOrDefault("SPARQL_ENDPOINT", "http://host.docker.internal:8890/sparql"),
	}
}

func loadLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  getEnvOrDefault("LAUNCHER_LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LAUNCHER_LOG_FORMAT", "console"),
		Output: getEnvOrDefault("LAUNCHER_LOG_OUTPUT", "stderr"),
	}
}

// Helper functions for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	strValue := getEnvOrDefault(key, "")
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnvOrDefault(key, "")
	if strValue == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}
