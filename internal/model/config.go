package model

import (
	"path/filepath"
	"time"
)

// Config is the complete regulqa configuration
type Config struct {
	Paths        PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Extract      ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Pool         PoolConfig        `yaml:"pool" mapstructure:"pool"`
	Label        LabelConfig       `yaml:"label" mapstructure:"label"`
	T1           T1Config          `yaml:"t1" mapstructure:"t1"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Synth        SynthConfig       `yaml:"synth" mapstructure:"synth"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// PathsConfig locates the data tree
type PathsConfig struct {
	Root      string `yaml:"root" mapstructure:"root"`
	Raw       string `yaml:"raw" mapstructure:"raw"`             // relative to root unless absolute
	Processed string `yaml:"processed" mapstructure:"processed"` // relative to root unless absolute
	Config    string `yaml:"config" mapstructure:"config"`       // holds sector_overrides.yaml, sources_t3.yaml
}

// ExtractConfig controls sentence segmentation
type ExtractConfig struct {
	MinLen    int    `yaml:"min_len" mapstructure:"min_len"`
	MaxLen    int    `yaml:"max_len" mapstructure:"max_len"`
	Indicator string `yaml:"indicator" mapstructure:"indicator"`
}

// FolderSource maps a raw folder to its source tag
type FolderSource struct {
	Folder string `yaml:"folder" mapstructure:"folder"`
	Source string `yaml:"source" mapstructure:"source"`
}

// PoolConfig controls the pool builder
type PoolConfig struct {
	Folders    []FolderSource `yaml:"folders" mapstructure:"folders"`
	OutputFile string         `yaml:"output_file" mapstructure:"output_file"`
}

// LabelConfig controls the weak-label stage
type LabelConfig struct {
	InputFile  string `yaml:"input_file" mapstructure:"input_file"`
	OutputFile string `yaml:"output_file" mapstructure:"output_file"`
}

// T1Config locates the public T1 datasets
type T1Config struct {
	PURERecord    string `yaml:"pure_record" mapstructure:"pure_record"`
	PromiseRecord string `yaml:"promise_record" mapstructure:"promise_record"`
	TrickSRS      string `yaml:"trick_srs" mapstructure:"trick_srs"`
}

// HTTPConfig controls source fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	CABundle      string        `yaml:"ca_bundle,omitempty" mapstructure:"ca_bundle"` // PEM file replacing the system roots
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig controls per-domain fetch rate
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// SynthConfig controls synthetic generation
type SynthConfig struct {
	PerSector int    `yaml:"per_sector" mapstructure:"per_sector"`
	Seed      uint64 `yaml:"seed" mapstructure:"seed"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:      ".",
			Raw:       "data/raw",
			Processed: "data/processed",
			Config:    "config",
		},
		Extract: ExtractConfig{
			MinLen:    15,
			MaxLen:    500,
			Indicator: `(?i)(?:^|[^\p{L}\p{N}_])(?:shall|should|must)(?:$|[^\p{L}\p{N}_])`,
		},
		Pool: PoolConfig{
			Folders:    DefaultFolders(),
			OutputFile: "regulqa_ambig_pool.csv",
		},
		Label: LabelConfig{
			InputFile:  "regulqa_ambig_pool.csv",
			OutputFile: "regulqa_ambig_v1.csv",
		},
		T1: T1Config{
			PURERecord:    "https://zenodo.org/records/1414117",
			PromiseRecord: "https://zenodo.org/records/12805484",
			TrickSRS:      "https://nasa.github.io/trick/documentation/software_requirements_specification/SRS.html",
		},
		HTTP: HTTPConfig{
			Timeout:       90 * time.Second,
			UserAgent:     "RegulQA-Harvester/1.0",
			MaxBodyBytes:  50_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".regulqa-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Synth: SynthConfig{
			PerSector: 100,
			Seed:      42,
		},
	}
}

// DefaultFolders returns the raw folders in scan order (T1, then T2, then T3)
func DefaultFolders() []FolderSource {
	return []FolderSource{
		{Folder: "t1_pure", Source: SourcePURE},
		{Folder: "t1_promise_exp", Source: SourcePromiseExp},
		{Folder: "t1_nasa_srs", Source: SourceNASATrick},
		{Folder: "t2_synthetic", Source: SourceSynthetic},
		{Folder: "t3_domain", Source: SourceDomain},
	}
}

// Known source tags
const (
	SourcePURE       = "PURE"
	SourcePromiseExp = "PROMISE_EXP"
	SourceNASATrick  = "NASA_TRICK_SRS"
	SourceSynthetic  = "SYNTHETIC"
	SourceDomain     = "DOMAIN"
)

// RawDir returns the absolute-or-root-relative raw directory
func (c *Config) RawDir() string {
	return c.resolve(c.Paths.Raw)
}

// ProcessedDir returns the processed output directory
func (c *Config) ProcessedDir() string {
	return c.resolve(c.Paths.Processed)
}

// ConfigDir returns the directory holding overrides and source lists
func (c *Config) ConfigDir() string {
	return c.resolve(c.Paths.Config)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, p)
}
