package config

const (
	defaultIncomingDir     = "~/sortd/incoming"
	defaultSortedDir       = "~/sortd/sorted"
	defaultArchiveDir      = "~/sortd/archive"
	defaultLogDir          = "~/.local/share/sortd/logs"
	defaultCategory        = "Other"
	defaultArchiveFormat   = "2006-01-02"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogRetention    = 60
	defaultSettleDelayMS   = 200
	defaultEventBuffer     = 64
	defaultNotifyTimeout   = 10
	defaultMinFreeMiB      = 64
	defaultJournalRetained = 90
)

// DefaultExtensions is the extension map seeded into new configurations.
var DefaultExtensions = map[string]string{
	".pdf":  "Documents",
	".doc":  "Documents",
	".docx": "Documents",
	".txt":  "Documents",
	".jpg":  "Images",
	".jpeg": "Images",
	".png":  "Images",
	".gif":  "Images",
	".mp3":  "Audio",
	".flac": "Audio",
	".mp4":  "Video",
	".mkv":  "Video",
	".zip":  "Archives",
	".tar":  "Archives",
	".gz":   "Archives",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	extensions := make(map[string]string, len(DefaultExtensions))
	for ext, category := range DefaultExtensions {
		extensions[ext] = category
	}
	return Config{
		Paths: Paths{
			IncomingDir: defaultIncomingDir,
			SortedDir:   defaultSortedDir,
			ArchiveDir:  defaultArchiveDir,
			LogDir:      defaultLogDir,
		},
		Rules: Rules{
			DefaultCategory: defaultCategory,
			Extensions:      extensions,
		},
		Archive: Archive{
			Enabled:    true,
			DateFormat: defaultArchiveFormat,
		},
		Workflow: Workflow{
			SettleDelayMS:        defaultSettleDelayMS,
			EventBuffer:          defaultEventBuffer,
			ScanOnStart:          true,
			MinFreeMiB:           defaultMinFreeMiB,
			JournalRetentionDays: defaultJournalRetained,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Errors:         true,
			Session:        true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
