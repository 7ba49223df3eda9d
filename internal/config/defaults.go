package config

const (
	defaultDataDir               = "~/.local/share/matchdeck"
	defaultLogDir                = "~/.local/share/matchdeck/logs"
	defaultExportDir             = "~/.local/share/matchdeck/exports"
	defaultAPIBind               = "127.0.0.1:8001"
	defaultAPIBaseURL            = "http://127.0.0.1:8001"
	defaultAPITimeoutSeconds     = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultPageSize              = 20
	defaultStalenessSeconds      = 30
	defaultStatsStalenessSeconds = 300
	defaultReadTimeoutSeconds    = 15
	defaultWriteTimeoutSeconds   = 30
	defaultMinFreeDiskMiB        = 64
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
			APIBind:   defaultAPIBind,
		},
		API: API{
			BaseURL:        defaultAPIBaseURL,
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Review: Review{
			PageSize:              defaultPageSize,
			StalenessSeconds:      defaultStalenessSeconds,
			StatsStalenessSeconds: defaultStatsStalenessSeconds,
		},
		Server: Server{
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			MinFreeDiskMiB:      defaultMinFreeDiskMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
