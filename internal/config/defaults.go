package config

const (
	defaultAPIBind               = "127.0.0.1:8632"
	defaultLockFile              = "~/.local/share/scorescan/scorescand.lock"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultVisionBaseURL         = "https://vision.googleapis.com/v1"
	defaultVisionTimeoutSeconds  = 30
	defaultLLMBaseURL            = "https://api.groq.com/openai/v1/chat/completions"
	defaultLLMModel              = "llama-3.3-70b-versatile"
	defaultLLMMaxTokens          = 1000
	defaultLLMTimeoutSeconds     = 30
	defaultYouTubeBaseURL        = "https://www.googleapis.com/youtube/v3"
	defaultSearchTimeoutSeconds  = 30
	defaultDetailTimeoutSeconds  = 15
	defaultSearchResults         = 10
	defaultDetailBatchSize       = 5
	defaultInstrument            = "clarinet"
	defaultMaxVideos             = 5
	defaultHighAccuracyThreshold = 6.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			APIBind:  defaultAPIBind,
			LockFile: defaultLockFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			MaxTokens:      defaultLLMMaxTokens,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		YouTube: YouTube{
			BaseURL:              defaultYouTubeBaseURL,
			SearchTimeoutSeconds: defaultSearchTimeoutSeconds,
			DetailTimeoutSeconds: defaultDetailTimeoutSeconds,
			SearchResults:        defaultSearchResults,
			DetailBatchSize:      defaultDetailBatchSize,
		},
		Scanner: Scanner{
			DefaultInstrument:     defaultInstrument,
			MaxVideos:             defaultMaxVideos,
			HighAccuracyThreshold: defaultHighAccuracyThreshold,
		},
	}
}
