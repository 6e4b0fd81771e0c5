package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// HTTP server configuration
	Port         string
	APIAccessKey string

	// News source credentials (absence disables the source)
	GNewsAPIKey    string
	NewsDataAPIKey string
	NewsAPIKey     string
	RSSFeedURL     string

	// Verification backends
	ClassifierURL    string
	ClassifierAPIKey string
	FactCheckAPIKey  string
	WikipediaURL     string
	CredibilityFile  string

	// Impact generation
	OpenAIAPIKey string

	// Collection schedule
	CollectEveryHours int
	CollectTimes      string
	PageSize          int
	RequestTimeout    int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
