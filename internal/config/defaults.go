package config

const (
	defaultSourceDir     = "Images"
	defaultOutputDirName = "optimized"
	defaultManifestName  = "image-manifest.json"
	defaultCacheName     = ".optimize-cache.json"
	defaultQuality       = 80
	defaultConcurrency   = 4
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

func defaultExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:     defaultSourceDir,
			OutputDirName: defaultOutputDirName,
		},
		Optimize: Optimize{
			Quality:     defaultQuality,
			Concurrency: defaultConcurrency,
			Extensions:  defaultExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
