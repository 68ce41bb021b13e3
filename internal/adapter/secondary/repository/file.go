package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"autotheme/internal/domain"
	"autotheme/internal/logging"
)

// Format identifies the on-disk encoding of the configuration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension; JSON is the default.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileRepository implements domain.ConfigRepository using a single file.
// This is a secondary adapter.
type FileRepository struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewFileRepository creates a new file-based config repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path, format: FormatForPath(path)}, nil
}

// Path returns the configuration file location.
func (f *FileRepository) Path() string {
	return f.path
}

// persistedData represents the structure on disk.
type persistedData struct {
	Sunrise                string `json:"sunrise" toml:"sunrise" yaml:"sunrise"`
	Sunset                 string `json:"sunset" toml:"sunset" yaml:"sunset"`
	CheckIntervalMinutes   int    `json:"checkIntervalMinutes" toml:"checkIntervalMinutes" yaml:"checkIntervalMinutes"`
	DayThemePath           string `json:"dayThemePath" toml:"dayThemePath" yaml:"dayThemePath"`
	NightThemePath         string `json:"nightThemePath" toml:"nightThemePath" yaml:"nightThemePath"`
	DayWallpaperOverride   string `json:"dayWallpaperOverride" toml:"dayWallpaperOverride" yaml:"dayWallpaperOverride"`
	NightWallpaperOverride string `json:"nightWallpaperOverride" toml:"nightWallpaperOverride" yaml:"nightWallpaperOverride"`
	UseGeolocation         bool   `json:"useGeolocation" toml:"useGeolocation" yaml:"useGeolocation"`
}

// Load reads the configuration from disk. A missing file yields the
// defaults, which are written out. A file that cannot be decoded is logged
// and replaced in memory by the defaults; the file itself is left alone.
func (f *FileRepository) Load() (domain.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := domain.DefaultConfig()
			logging.Infof("no config at %s, writing defaults", f.path)
			if err := f.save(config); err != nil {
				logging.Warnf("write default config: %v", err)
			}
			return config, nil
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	config, err := f.decode(data)
	if err != nil {
		logging.Warnf("config %s is corrupt, using defaults: %v", f.path, err)
		return domain.DefaultConfig(), nil
	}
	return config, nil
}

// decode parses data in the repository's format into a complete config.
func (f *FileRepository) decode(data []byte) (domain.Config, error) {
	var persisted persistedData
	var err error
	switch f.format {
	case FormatTOML:
		err = toml.Unmarshal(data, &persisted)
	case FormatYAML:
		err = yaml.Unmarshal(data, &persisted)
	default:
		err = json.Unmarshal(data, &persisted)
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	def := domain.DefaultConfig()
	config := domain.Config{
		Sunrise:                def.Sunrise,
		Sunset:                 def.Sunset,
		CheckIntervalMinutes:   persisted.CheckIntervalMinutes,
		DayThemePath:           persisted.DayThemePath,
		NightThemePath:         persisted.NightThemePath,
		DayWallpaperOverride:   persisted.DayWallpaperOverride,
		NightWallpaperOverride: persisted.NightWallpaperOverride,
		UseGeolocation:         persisted.UseGeolocation,
	}
	if persisted.Sunrise != "" {
		if config.Sunrise, err = domain.ParseTimeOfDay(persisted.Sunrise); err != nil {
			return domain.Config{}, fmt.Errorf("sunrise: %w", err)
		}
	}
	if persisted.Sunset != "" {
		if config.Sunset, err = domain.ParseTimeOfDay(persisted.Sunset); err != nil {
			return domain.Config{}, fmt.Errorf("sunset: %w", err)
		}
	}
	if config.CheckIntervalMinutes <= 0 {
		logging.Debugf("checkIntervalMinutes %d replaced by default", config.CheckIntervalMinutes)
	}
	return config.Normalize(), nil
}

// Save persists the configuration to disk.
func (f *FileRepository) Save(config domain.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(config)
}

func (f *FileRepository) save(config domain.Config) error {
	persisted := persistedData{
		Sunrise:                config.Sunrise.String(),
		Sunset:                 config.Sunset.String(),
		CheckIntervalMinutes:   config.CheckIntervalMinutes,
		DayThemePath:           config.DayThemePath,
		NightThemePath:         config.NightThemePath,
		DayWallpaperOverride:   config.DayWallpaperOverride,
		NightWallpaperOverride: config.NightWallpaperOverride,
		UseGeolocation:         config.UseGeolocation,
	}

	var data []byte
	var err error
	switch f.format {
	case FormatTOML:
		data, err = toml.Marshal(persisted)
	case FormatYAML:
		data, err = yaml.Marshal(persisted)
	default:
		data, err = json.MarshalIndent(persisted, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autotheme", "config.json")
}

var _ domain.ConfigRepository = (*FileRepository)(nil)
