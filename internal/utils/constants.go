package utils

const (
	// ConfigFileName is the name of the configuration file looked up in the working directory.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".scraper"
	// EnvironmentPrefix prefixes environment variables that override configuration keys.
	EnvironmentPrefix = "SCRAPER"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors returned by the CLI.
	ApplicationExecutionFailedMessage = "scraper failed"
)
