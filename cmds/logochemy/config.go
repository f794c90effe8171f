package main

import (
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"

	"github.com/SAFedorov/logochemy/golib/errors"
)

// config holds defaults for flags that were not given on the command line.
//
//	normalize: true
//	report_every: 50
//	pairs:
//	  iterations: 200
//	ngrams:
//	  max_n: 4
//	  iterations: 100
//	  merges_per_iter: 8
type config struct {
	Normalize   *bool `yaml:"normalize"`
	ReportEvery *int  `yaml:"report_every"`
	Pairs       struct {
		Iterations *int `yaml:"iterations"`
	} `yaml:"pairs"`
	NGrams struct {
		MaxN          *int `yaml:"max_n"`
		Iterations    *int `yaml:"iterations"`
		MergesPerIter *int `yaml:"merges_per_iter"`
	} `yaml:"ngrams"`
}

const (
	defaultIterations    = 1
	defaultMaxN          = 2
	defaultMergesPerIter = 1
	defaultReportEvery   = 100
)

// loadConfig reads path from appFs; an empty path gives an empty config.
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	buf, err := afero.ReadFile(appFs, path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config")
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// pickInt returns the flag value if set, else the config value if set, else def.
func pickInt(flag, conf *int, def int) int {
	switch {
	case flag != nil:
		return *flag
	case conf != nil:
		return *conf
	default:
		return def
	}
}

func pickBool(flag, conf *bool, def bool) bool {
	switch {
	case flag != nil:
		return *flag
	case conf != nil:
		return *conf
	default:
		return def
	}
}
