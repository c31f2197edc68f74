package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nodewee/scan-to-text/pkg/constants"
)

// Default values and constants
const (
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "console"
	DefaultLanguage               = constants.DefaultLanguage
	DefaultConfidenceThreshold    = 0.0
	DefaultRasterDPI              = constants.DefaultRasterDPI
	DefaultMaxConcurrency         = 1
	DefaultTimeoutMinutes         = 30
	DefaultCacheEnabled           = true
	DefaultEnableVerbose          = false
	DefaultMaxFileSize            = constants.MaxFileSize
	DefaultServerAddr             = constants.DefaultServerAddr
	DefaultMaxConcurrentDocuments = constants.DefaultServerDocLimit
	DefaultMaxUploadSize          = constants.MaxUploadSize

	// EnvPrefix prefixes every runtime environment variable
	EnvPrefix = "SCAN_TEXT_"
)

// Config holds application configuration
type Config struct {
	// External tool paths; empty means search the platform names on PATH
	GhostscriptPath string `json:"ghostscript_path"`
	PdftoppmPath    string `json:"pdftoppm_path"`
	OCRmyPDFPath    string `json:"ocrmypdf_path"`
	PdftotextPath   string `json:"pdftotext_path"`
	SuryaOCRPath    string `json:"surya_ocr_path"`
	TesseractPath   string `json:"tesseract_path"`

	// Runtime settings (not persisted to file)
	Language            string  `json:"-"`
	ConfidenceThreshold float64 `json:"-"`
	RasterDPI           int     `json:"-"`
	MaxConcurrency      int     `json:"-"`
	TimeoutMinutes      int     `json:"-"`
	MaxFileSize         int64   `json:"-"`
	TempDir             string  `json:"-"`
	CacheEnabled        bool    `json:"-"`
	CacheDir            string  `json:"-"`
	TessdataPrefix      string  `json:"-"`
	LogLevel            string  `json:"-"`
	LogFormat           string  `json:"-"`
	EnableVerbose       bool    `json:"-"`

	// HTTP surface
	ServerAddr             string `json:"-"`
	MaxConcurrentDocuments int    `json:"-"`
	MaxUploadSize          int64  `json:"-"`
}

// NewConfig returns a configuration populated with defaults only
func NewConfig() *Config {
	return &Config{
		Language:               DefaultLanguage,
		ConfidenceThreshold:    DefaultConfidenceThreshold,
		RasterDPI:              DefaultRasterDPI,
		MaxConcurrency:         DefaultMaxConcurrency,
		TimeoutMinutes:         DefaultTimeoutMinutes,
		MaxFileSize:            DefaultMaxFileSize,
		CacheEnabled:           DefaultCacheEnabled,
		CacheDir:               defaultCacheDir(),
		LogLevel:               DefaultLogLevel,
		LogFormat:              DefaultLogFormat,
		EnableVerbose:          DefaultEnableVerbose,
		ServerAddr:             DefaultServerAddr,
		MaxConcurrentDocuments: DefaultMaxConcurrentDocuments,
		MaxUploadSize:          DefaultMaxUploadSize,
	}
}

// DefaultConfig returns defaults merged with the tool path config file, if any
func DefaultConfig() *Config {
	cfg := NewConfig()
	if file, err := LoadConfigFile(); err == nil {
		file.applyTo(cfg)
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file, using defaults: %v\n", err)
	}
	return cfg
}

// LoadConfigWithEnvOverrides loads defaults, the config file, an optional .env
// file and finally SCAN_TEXT_* environment variables
func LoadConfigWithEnvOverrides() *Config {
	_ = godotenv.Load()

	config := DefaultConfig()
	config.ApplyEnv(os.Getenv)
	return config
}

// ApplyEnv applies environment overrides read through getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if value := getenv(EnvPrefix + key); value != "" {
			*dst = value
		}
	}
	integer := func(key string, dst *int) {
		if value := getenv(EnvPrefix + key); value != "" {
			if intVal, err := strconv.Atoi(value); err == nil {
				*dst = intVal
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if value := getenv(EnvPrefix + key); value != "" {
			*dst = parseBool(value)
		}
	}

	// Tool paths
	str("GHOSTSCRIPT_PATH", &c.GhostscriptPath)
	str("PDFTOPPM_PATH", &c.PdftoppmPath)
	str("OCRMYPDF_PATH", &c.OCRmyPDFPath)
	str("PDFTOTEXT_PATH", &c.PdftotextPath)
	str("SURYA_OCR_PATH", &c.SuryaOCRPath)
	str("TESSERACT_PATH", &c.TesseractPath)

	str("LANGUAGE", &c.Language)
	if value := getenv(EnvPrefix + "CONFIDENCE_THRESHOLD"); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			c.ConfidenceThreshold = f
		}
	}
	integer("RASTER_DPI", &c.RasterDPI)
	integer("MAX_CONCURRENCY", &c.MaxConcurrency)
	integer("TIMEOUT_MINUTES", &c.TimeoutMinutes)
	if value := getenv(EnvPrefix + "MAX_FILE_SIZE"); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			c.MaxFileSize = n
		}
	}
	str("TEMP_DIR", &c.TempDir)
	boolean("CACHE_ENABLED", &c.CacheEnabled)
	str("CACHE_DIR", &c.CacheDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	boolean("VERBOSE", &c.EnableVerbose)

	str("SERVER_ADDR", &c.ServerAddr)
	integer("MAX_CONCURRENT_DOCUMENTS", &c.MaxConcurrentDocuments)
	if value := getenv(EnvPrefix + "MAX_UPLOAD_SIZE"); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			c.MaxUploadSize = n
		}
	}

	// TESSDATA_PREFIX is the variable tesseract itself reads
	if value := getenv("TESSDATA_PREFIX"); value != "" {
		c.TessdataPrefix = value
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// defaultCacheDir returns {user_cache_dir}/scan-to-text, or .ocr-cache as a last resort
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, constants.AppName)
	}
	return ".ocr-cache"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return NewConfigValidator().Validate(c)
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Language: %s, Threshold: %.2f, DPI: %d, LogLevel: %s, Verbose: %v}",
		c.Language, c.ConfidenceThreshold, c.RasterDPI, c.LogLevel, c.EnableVerbose)
}
