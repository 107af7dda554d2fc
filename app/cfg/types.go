package cfg

type Cfg struct {
	// Data configuration
	StorePath  string
	TargetsDir string

	// Application configuration
	Port               string
	FetchDelay         int // milliseconds between fetched targets
	APIAccessKey       string
	EnrichDescriptions bool
	RunUpdate          bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
