package config

const (
	defaultConfigPath       = "~/.config/yogaseq/config.toml"
	defaultDataDir          = "~/.local/share/yogaseq"
	defaultLogDir           = "~/.local/share/yogaseq/logs"
	defaultAPIBind          = "127.0.0.1:7490"
	defaultAssetsDir        = "~/.local/share/yogaseq/assets"
	defaultImagesBase       = "images"
	defaultAudioBaseURL     = "/audio"
	defaultEndCueMinSeconds = 60
	defaultTickIntervalMS   = 1000
	defaultEndCue           = "end.mp3"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Assets: Assets{
			Index:        defaultAssetsDir + "/asana_index.csv",
			Manifest:     defaultAssetsDir + "/images/manifest.json",
			PlateGroups:  defaultAssetsDir + "/plate_groups.json",
			Sequences:    defaultAssetsDir + "/sequences",
			ImagesBase:   defaultImagesBase,
			ImagesDir:    defaultAssetsDir + "/images",
			AudioDir:     defaultAssetsDir + "/audio",
			AudioBaseURL: defaultAudioBaseURL,
		},
		Playback: Playback{
			EndCueMinSeconds: defaultEndCueMinSeconds,
			TickIntervalMS:   defaultTickIntervalMS,
			EndCue:           defaultEndCue,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
