package target

// Strategy selects how a platform is enriched. Chosen per target by static
// configuration, never by runtime detection.
type Strategy string

const (
	// StrategyAPI probes a stable public REST endpoint.
	StrategyAPI Strategy = "api"
	// StrategyPage loads promo pages and extracts text via CSS selectors,
	// rendered in a headless browser or fetched plainly per Page.Render.
	StrategyPage Strategy = "page"
	// StrategyFeed reads the platform's announcements RSS/Atom feed.
	StrategyFeed Strategy = "feed"
)

type Target struct {
	Name     string   // Derived from filename (without .yml extension)
	Strategy Strategy `yaml:"strategy"`
	API      APIConfig  `yaml:"api"`
	Page     PageConfig `yaml:"page"`
	Feed     FeedConfig `yaml:"feed"`
	Settings Settings   `yaml:"settings"`
}

type APIConfig struct {
	URL string `yaml:"url"`
	// Deals is the deal description reported when the endpoint answers 2xx.
	Deals string `yaml:"deals"`
}

type PageConfig struct {
	// Render switches between the headless-browser scraper and the plain
	// HTTP+parse scraper.
	Render bool      `yaml:"render"`
	URLs   []PageURL `yaml:"urls"`
}

type PageURL struct {
	URL string `yaml:"url"`
	// Selectors maps a logical field name (bonus, offer, link) to a CSS
	// selector expression evaluated against the loaded page.
	Selectors map[string]string `yaml:"selectors"`
}

type FeedConfig struct {
	URL string `yaml:"url"`
}

type Settings struct {
	Timeout int `yaml:"timeout"` // seconds
	Settle  int `yaml:"settle"`  // seconds, rendered pages only
}
