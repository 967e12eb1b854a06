// Package config loads and merges the manifest builder's configuration:
// struct defaults, then a YAML file, then environment variables, then CLI
// flags (§6). It follows the teacher's config package in spirit (explicit
// Load* functions, environment overrides a struct of defaults) but
// generalizes the source of truth to a YAML file since this builder has no
// database connection string to assemble.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StorageKind selects which storage.Provider variant to construct.
type StorageKind string

const (
	StorageS3    StorageKind = "s3"
	StorageGitHub StorageKind = "github"
	StorageLocal StorageKind = "local"
)

// S3Config configures the S3-like storage provider.
type S3Config struct {
	Bucket              string `yaml:"bucket"`
	Region              string `yaml:"region"`
	AccessKeyID         string `yaml:"accessKeyId"`
	SecretAccessKey     string `yaml:"secretAccessKey"`
	Endpoint            string `yaml:"endpoint,omitempty"`
	CustomDomain        string `yaml:"customDomain,omitempty"`
	Prefix              string `yaml:"prefix,omitempty"`
	ExcludeRegex        string `yaml:"excludeRegex,omitempty"`
	MaxFileLimit        int    `yaml:"maxFileLimit"`
	DownloadConcurrency int    `yaml:"downloadConcurrency"`
	MaxAttempts         int    `yaml:"maxAttempts"`
	IsAlibaba           bool   `yaml:"isAlibaba,omitempty"`
}

// GitHubConfig configures the GitHub storage provider.
type GitHubConfig struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Branch   string `yaml:"branch"`
	Path     string `yaml:"path,omitempty"`
	Token    string `yaml:"token,omitempty"`
	UseRawCDN bool  `yaml:"useRawCdn,omitempty"`
}

// LocalConfig configures the local-filesystem storage provider.
type LocalConfig struct {
	BasePath string `yaml:"basePath"`
	BaseURL  string `yaml:"baseUrl,omitempty"`
}

// StorageConfig is the tagged union of storage provider configurations.
type StorageConfig struct {
	Kind   StorageKind  `yaml:"kind"`
	S3     S3Config     `yaml:"s3,omitempty"`
	GitHub GitHubConfig `yaml:"github,omitempty"`
	Local  LocalConfig  `yaml:"local,omitempty"`
}

// RepoConfig controls the optional remote assets-git sync (§4.H).
type RepoConfig struct {
	Enable bool   `yaml:"enable"`
	URL    string `yaml:"url,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// OptionsConfig holds the builder's general behavioural knobs.
type OptionsConfig struct {
	DefaultConcurrency          int  `yaml:"defaultConcurrency"`
	EnableLivePhotoDetection    bool `yaml:"enableLivePhotoDetection"`
	ShowProgress                bool `yaml:"showProgress"`
	ShowDetailedStats           bool `yaml:"showDetailedStats"`
	DigestSuffixLength          int  `yaml:"digestSuffixLength"`
	ThumbnailEdge               int  `yaml:"thumbnailEdge"`
	ThumbnailQuality            int  `yaml:"thumbnailQuality"`
}

// LoggingConfig controls the zap-based logger (§2 ambient stack).
type LoggingConfig struct {
	Verbose       bool   `yaml:"verbose"`
	Level         string `yaml:"level"`
	OutputToFile  bool   `yaml:"outputToFile"`
	LogFilePath   string `yaml:"logFilePath,omitempty"`
}

// WorkerConfig controls the orchestrator (§4.F).
type WorkerConfig struct {
	WorkerCount        int  `yaml:"workerCount"`
	TimeoutSeconds     int  `yaml:"timeout"`
	UseClusterMode     bool `yaml:"useClusterMode"`
	WorkerConcurrency  int  `yaml:"workerConcurrency"`
}

// PerformanceConfig groups the worker pool configuration.
type PerformanceConfig struct {
	Worker WorkerConfig `yaml:"worker"`
}

// Flags are the operator-supplied force flags (§6), threaded independently
// of the config file since they also arrive via environment variables when
// a cluster worker process re-execs.
type Flags struct {
	Force           bool
	ForceManifest   bool
	ForceThumbnails bool
}

// Config is the fully merged, effective configuration for one run.
type Config struct {
	OutputDir   string            `yaml:"outputDir"`
	Repo        RepoConfig        `yaml:"repo"`
	Storage     StorageConfig     `yaml:"storage"`
	Options     OptionsConfig     `yaml:"options"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Flags       Flags             `yaml:"-"`
}

// Defaults returns the struct-default configuration (lowest precedence).
func Defaults() Config {
	return Config{
		OutputDir: "./public",
		Storage: StorageConfig{
			Kind: StorageLocal,
			Local: LocalConfig{
				BasePath: "./assets",
			},
		},
		Options: OptionsConfig{
			DefaultConcurrency:       4,
			EnableLivePhotoDetection: true,
			ShowProgress:             true,
			ShowDetailedStats:        false,
			DigestSuffixLength:       0,
			ThumbnailEdge:            800,
			ThumbnailQuality:         80,
		},
		Logging: LoggingConfig{
			Verbose: false,
			Level:   "info",
		},
		Performance: PerformanceConfig{
			Worker: WorkerConfig{
				WorkerCount:       0, // 0 == derive from host CPU count and memory when the build runs
				TimeoutSeconds:    30,
				UseClusterMode:    false,
				WorkerConcurrency: 4,
			},
		},
	}
}

// LoadFile merges a YAML config file over cfg, mutating and returning it.
// A missing file is not an error; callers decide whether a file is required.
func LoadFile(cfg Config, path string) (Config, error) {
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the environment variables documented in §6 on top of cfg.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("GIT_TOKEN"); v != "" {
		cfg.Repo.Token = v
	}
	if v := strings.ToLower(os.Getenv("FORCE_MODE")); v == "true" || v == "1" {
		cfg.Flags.Force = true
	}
	if v := strings.ToLower(os.Getenv("FORCE_MANIFEST")); v == "true" || v == "1" {
		cfg.Flags.ForceManifest = true
	}
	if v := strings.ToLower(os.Getenv("FORCE_THUMBNAILS")); v == "true" || v == "1" {
		cfg.Flags.ForceThumbnails = true
	}
	if v := strings.ToLower(os.Getenv("DEBUG")); v == "1" || v == "true" {
		cfg.Logging.Verbose = true
	}
	return cfg
}

// IsClusterWorker reports whether this process was re-exec'd as a process-pool
// child (§4.F, §6), and returns its worker id.
func IsClusterWorker() (isWorker bool, workerID int) {
	if strings.ToLower(os.Getenv("CLUSTER_WORKER")) != "true" {
		return false, 0
	}
	id, err := strconv.Atoi(os.Getenv("WORKER_ID"))
	if err != nil {
		return true, 0
	}
	return true, id
}

// Validate rejects the invalid configurations described by ConfigError (§7).
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("outputDir must not be empty")
	}
	switch cfg.Storage.Kind {
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket must not be empty")
		}
		if cfg.Storage.S3.MaxFileLimit <= 0 {
			return fmt.Errorf("storage.s3.maxFileLimit must be > 0")
		}
		if cfg.Storage.S3.ExcludeRegex != "" {
			if _, err := regexp.Compile(cfg.Storage.S3.ExcludeRegex); err != nil {
				return fmt.Errorf("storage.s3.excludeRegex is invalid: %w", err)
			}
		}
	case StorageGitHub:
		if cfg.Storage.GitHub.Owner == "" || cfg.Storage.GitHub.Repo == "" {
			return fmt.Errorf("storage.github.owner and storage.github.repo must not be empty")
		}
	case StorageLocal:
		if strings.TrimSpace(cfg.Storage.Local.BasePath) == "" {
			return fmt.Errorf("storage.local.basePath must not be empty")
		}
	default:
		return fmt.Errorf("storage.kind must be one of s3, github, local (got %q)", cfg.Storage.Kind)
	}
	if cfg.Repo.Enable && cfg.Repo.URL == "" {
		return fmt.Errorf("repo.url must be set when repo.enable is true")
	}
	return nil
}

// Dump renders cfg as YAML for the --config flag (§6).
func Dump(cfg Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal effective config: %w", err)
	}
	return string(out), nil
}
