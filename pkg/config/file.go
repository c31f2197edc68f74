package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

const (
	ConfigFileName = "config.json"
	AppDirName     = ".scan-to-text"

	// ConfigDirEnv overrides the configuration directory
	ConfigDirEnv = EnvPrefix + "CONFIG_DIR"
)

// ConfigFile represents the JSON configuration file structure.
// Only external tool paths are persisted.
type ConfigFile struct {
	GhostscriptPath string `json:"ghostscript_path,omitempty"`
	PdftoppmPath    string `json:"pdftoppm_path,omitempty"`
	OCRmyPDFPath    string `json:"ocrmypdf_path,omitempty"`
	PdftotextPath   string `json:"pdftotext_path,omitempty"`
	SuryaOCRPath    string `json:"surya_ocr_path,omitempty"`
	TesseractPath   string `json:"tesseract_path,omitempty"`
}

// fields maps config keys to the struct fields that hold them
func (cf *ConfigFile) fields() map[string]*string {
	return map[string]*string{
		"ghostscript_path": &cf.GhostscriptPath,
		"pdftoppm_path":    &cf.PdftoppmPath,
		"ocrmypdf_path":    &cf.OCRmyPDFPath,
		"pdftotext_path":   &cf.PdftotextPath,
		"surya_ocr_path":   &cf.SuryaOCRPath,
		"tesseract_path":   &cf.TesseractPath,
	}
}

func (cf *ConfigFile) applyTo(c *Config) {
	if cf.GhostscriptPath != "" {
		c.GhostscriptPath = cf.GhostscriptPath
	}
	if cf.PdftoppmPath != "" {
		c.PdftoppmPath = cf.PdftoppmPath
	}
	if cf.OCRmyPDFPath != "" {
		c.OCRmyPDFPath = cf.OCRmyPDFPath
	}
	if cf.PdftotextPath != "" {
		c.PdftotextPath = cf.PdftotextPath
	}
	if cf.SuryaOCRPath != "" {
		c.SuryaOCRPath = cf.SuryaOCRPath
	}
	if cf.TesseractPath != "" {
		c.TesseractPath = cf.TesseractPath
	}
}

// GetConfigDir returns the user configuration directory (~/.scan-to-text)
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}

	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfigFile reads the config file. A missing file yields an error
// satisfying os.IsNotExist.
func LoadConfigFile() (*ConfigFile, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	var configFile ConfigFile
	if err := json.Unmarshal(data, &configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeConversion, "failed to parse config file")
	}

	return &configFile, nil
}

// saveConfigFile saves ConfigFile to disk
func saveConfigFile(configFile *ConfigFile) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	data, err := json.MarshalIndent(configFile, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeConversion, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}

	return nil
}

func loadOrEmpty() (*ConfigFile, error) {
	cf, err := LoadConfigFile()
	if os.IsNotExist(err) {
		return &ConfigFile{}, nil
	}
	return cf, err
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (string, error) {
	cf, err := loadOrEmpty()
	if err != nil {
		return "", err
	}

	field, ok := cf.fields()[key]
	if !ok {
		return "", utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}
	return *field, nil
}

// SetConfigValue sets a specific configuration value by key
func SetConfigValue(key, value string) error {
	cf, err := loadOrEmpty()
	if err != nil {
		return err
	}

	field, ok := cf.fields()[key]
	if !ok {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}
	*field = value

	return saveConfigFile(cf)
}

// ListConfigKeys returns all available configuration keys
func ListConfigKeys() []string {
	keys := make([]string, 0, 6)
	for key := range (&ConfigFile{}).fields() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
