// Package config loads wordbook settings from YAML and the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Words   WordsConfig   `yaml:"words"`
	Affix   AffixConfig   `yaml:"affix"`
	Display DisplayConfig `yaml:"display"`
	Harvest HarvestConfig `yaml:"harvest"`
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string `yaml:"path" env:"WORDBOOK_DB" env-default:"wordbook.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// WordsConfig controls word normalisation. Words are lowercased unless
// KeepCase is set.
type WordsConfig struct {
	KeepCase bool `yaml:"keep_case" env:"WORDBOOK_KEEP_CASE" env-default:"false"`
}

// AffixConfig holds the affix engine bounds. MaxLength 0 means unbounded.
type AffixConfig struct {
	MinLength    int `yaml:"min_length"    env:"AFFIX_MIN_LENGTH"    env-default:"1"`
	MaxLength    int `yaml:"max_length"    env:"AFFIX_MAX_LENGTH"    env-default:"0"`
	MinRoot      int `yaml:"min_root"      env:"AFFIX_MIN_ROOT"      env-default:"2"`
	MinFrequency int `yaml:"min_frequency" env:"AFFIX_MIN_FREQUENCY" env-default:"2"`
}

// DisplayConfig limits how much the CLI prints.
type DisplayConfig struct {
	MaxResults int `yaml:"max_results" env:"DISPLAY_MAX_RESULTS" env-default:"20"`
	MaxList    int `yaml:"max_list"    env:"DISPLAY_MAX_LIST"    env-default:"100"`
}

// HarvestConfig holds article harvesting settings. Harvested words are
// Japanese, so storing them next to the English vocabulary the affix tools
// work on is off unless AllowAdd is set.
type HarvestConfig struct {
	Workers        int           `yaml:"workers"         env:"HARVEST_WORKERS"         env-default:"4"`
	Timeout        time.Duration `yaml:"timeout"         env:"HARVEST_TIMEOUT"         env-default:"30s"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"  env:"HARVEST_MAX_BODY_BYTES"  env-default:"10485760"`
	DictionaryPath string        `yaml:"dictionary_path" env:"HARVEST_DICTIONARY_PATH" env-default:"jmdict-eng-common.json"`
	AutoDownload   bool          `yaml:"auto_download"   env:"HARVEST_AUTO_DOWNLOAD"   env-default:"false"`
	AllowAdd       bool          `yaml:"allow_add"       env:"HARVEST_ALLOW_ADD"       env-default:"false"`
}
