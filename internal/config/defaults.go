package config

const (
	defaultWorkspaceDir = "~/roomclip/work"
	defaultStorageDir   = "~/roomclip/storage"
	defaultLogDir       = "~/roomclip/logs"

	defaultBaseURL = "http://localhost:8085"

	defaultT0Policy   = "baseline"
	defaultCutTimeout = 300

	defaultPollInterval       = 5
	defaultClaimTimeout       = 900
	defaultErrorRetryInterval = 60

	defaultAPIBind = "127.0.0.1:8085"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with the default values. Paths are
// returned unexpanded; Load performs the expansion.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			StorageDir:   defaultStorageDir,
			LogDir:       defaultLogDir,
		},
		Storage: Storage{
			BaseURL: defaultBaseURL,
		},
		Slicing: Slicing{
			T0Policy:   defaultT0Policy,
			CutTimeout: defaultCutTimeout,
		},
		Worker: Worker{
			PollInterval:       defaultPollInterval,
			ClaimTimeout:       defaultClaimTimeout,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		API: API{
			Enabled: false,
			Bind:    defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
