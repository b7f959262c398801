package config

const (
	defaultConfigPath         = "~/.config/rcg/config.toml"
	dotenvPath                = ".env"
	defaultDataDir            = "~/.local/share/rcg"
	defaultLogDir             = "~/.local/share/rcg/logs"
	defaultStoreFile          = "rcg.db"
	defaultAPIBind            = "127.0.0.1:7488"
	defaultPlaylistID         = "37i9dQZF1DX0XUsuxWHRQd"
	defaultLastFMBaseURL      = "https://ws.audioscrobbler.com/2.0/"
	defaultLastFMLanguage     = "en"
	defaultWikipediaBaseURL   = "https://en.wikipedia.org/w/api.php"
	defaultWikipediaUserAgent = "rcg/dev (chart demographics)"
	defaultDisambiguationHint = "rapper"
	defaultTimezone           = "America/New_York"
	defaultGroupDepth         = 1
	defaultPollMinutes        = 60
	defaultRequestTimeout     = 15
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Spotify: Spotify{
			PlaylistID: defaultPlaylistID,
		},
		LastFM: LastFM{
			BaseURL:  defaultLastFMBaseURL,
			Language: defaultLastFMLanguage,
		},
		Wikipedia: Wikipedia{
			BaseURL:            defaultWikipediaBaseURL,
			UserAgent:          defaultWikipediaUserAgent,
			DisambiguationHint: defaultDisambiguationHint,
		},
		Chart: Chart{
			Timezone:   defaultTimezone,
			GroupDepth: defaultGroupDepth,
		},
		Workflow: Workflow{
			PollIntervalMinutes:   defaultPollMinutes,
			RequestTimeoutSeconds: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
