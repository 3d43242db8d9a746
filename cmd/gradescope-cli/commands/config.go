package commands

import (
	"gradescope-backend/lib/fetch"
	"gradescope-backend/lib/normalize"
	"gradescope-backend/lib/scrapers/gradescope"
	"gradescope-backend/lib/util/configutil"
)

type NormalizationConfig struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	// ordered [from, to] pairs; order decides reverse-lookup ties
	Mapping [][2]string `json:"mapping"`
}

type Config struct {
	BaseUrl string `json:"base_url"`
	// session cookies of a logged-in instructor account
	Cookies        map[string]string     `json:"cookies"`
	Normalizations []NormalizationConfig `json:"normalizations"`
	// sqlite path for the `snapshot` command
	GradestorePath string `json:"gradestore_path"`
}

func loadConfig() (Config, error) {
	return configutil.ReadRecursively[Config]("gradescope.json5")
}

func newScraper(config Config) (*gradescope.Client, error) {
	fetcher, err := fetch.NewClient(fetch.Options{
		BaseUrl: config.BaseUrl,
		Cookies: config.Cookies,
	})
	if err != nil {
		return nil, err
	}
	return gradescope.NewClient(fetcher), nil
}

func newNormalizationSet(config Config) (normalize.Set, error) {
	records := make([]normalize.Record, len(config.Normalizations))
	for i, n := range config.Normalizations {
		records[i] = normalize.Record{
			Source:      n.Source,
			Destination: n.Destination,
			Mapping:     normalize.MappingFromPairs(n.Mapping),
		}
	}
	return normalize.NewSet(records)
}
