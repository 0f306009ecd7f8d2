// Package feed fetches and parses configured sources, deduplicates
// headlines, and produces date-bucketed articles for snapshot merging.
package feed

// Source kinds.
const (
	KindRSS  = "rss"
	KindHTML = "html"
)

// Source describes one configured feed or listing page. Selector locates
// article anchors on HTML listing pages and is ignored for RSS sources.
// Weight scales the score of articles from the source.
type Source struct {
	Name     string  `mapstructure:"name"     yaml:"name"`
	URL      string  `mapstructure:"url"      yaml:"url"`
	Kind     string  `mapstructure:"kind"     yaml:"kind"`
	Category string  `mapstructure:"category" yaml:"category"`
	Selector string  `mapstructure:"selector" yaml:"selector"`
	Weight   float64 `mapstructure:"weight"   yaml:"weight"`
}
