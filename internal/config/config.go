package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where calmkit looks for its config when --config is not given.
const DefaultPath = ".calmkit.yaml"

// ErrMissingAPIKey is returned when a network command runs without a Gemini key.
var ErrMissingAPIKey = errors.New("Gemini API key not configured (set GEMINI_API_KEY or gemini.api_key)")

// Config holds all calmkit configuration.
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Icons   IconsConfig   `yaml:"icons"`
	Probe   ProbeConfig   `yaml:"probe"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Logging LoggingConfig `yaml:"logging"`
}

// GeminiConfig configures access to the generative-content endpoint.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"` // empty = SDK default
	APIVersion string `yaml:"api_version"`

	// TextModel is used by the JSON-mode text probe and the vision probe.
	TextModel string `yaml:"text_model"`
	// DefaultModel is used by `probe model` without an argument and by analyze.
	DefaultModel string `yaml:"default_model"`

	ListTimeout   string  `yaml:"list_timeout"`
	TextTimeout   string  `yaml:"text_timeout"`
	VisionTimeout string  `yaml:"vision_timeout"`
	Temperature   float32 `yaml:"temperature"`
}

// Density is one launcher icon density folder and its square edge in pixels.
type Density struct {
	Folder string `yaml:"folder"`
	Size   int    `yaml:"size"`
}

// IconsConfig configures launcher icon generation.
type IconsConfig struct {
	Source    string    `yaml:"source"`
	ResDir    string    `yaml:"res_dir"`
	FileName  string    `yaml:"file_name"`
	Densities []Density `yaml:"densities"`
}

// ProbeConfig configures the API smoke tests.
type ProbeConfig struct {
	VisionImage string `yaml:"vision_image"`
}

// AnalyzeConfig configures meal photo analysis.
type AnalyzeConfig struct {
	MaxDimension int `yaml:"max_dimension"`
	JPEGQuality  int `yaml:"jpeg_quality"`
}

// DefaultDensities are the Android launcher densities, smallest first.
func DefaultDensities() []Density {
	return []Density{
		{Folder: "mipmap-mdpi", Size: 48},
		{Folder: "mipmap-hdpi", Size: 72},
		{Folder: "mipmap-xhdpi", Size: 96},
		{Folder: "mipmap-xxhdpi", Size: 144},
		{Folder: "mipmap-xxxhdpi", Size: 192},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIVersion:    "v1beta",
			TextModel:     "gemini-1.5-flash",
			DefaultModel:  "gemini-2.5-flash",
			ListTimeout:   "10s",
			TextTimeout:   "30s",
			VisionTimeout: "60s",
			Temperature:   0.2,
		},
		Icons: IconsConfig{
			Source:    "CAPY.png",
			ResDir:    filepath.Join("app", "src", "main", "res"),
			FileName:  "ic_launcher.png",
			Densities: DefaultDensities(),
		},
		Probe: ProbeConfig{
			VisionImage: filepath.Join("app", "src", "main", "res", "mipmap-mdpi", "ic_launcher.png"),
		},
		Analyze: AnalyzeConfig{
			MaxDimension: 1024,
			JPEGQuality:  80,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config as YAML. The API key is never written.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.Gemini.APIKey = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	if dir := os.Getenv("CALMKIT_RES_DIR"); dir != "" {
		c.Icons.ResDir = dir
	}
	if src := os.Getenv("CALMKIT_ICON_SOURCE"); src != "" {
		c.Icons.Source = src
	}
}

// Validate checks the parts of the config every command depends on.
func (c *Config) Validate() error {
	if len(c.Icons.Densities) == 0 {
		return fmt.Errorf("icons.densities must not be empty")
	}

	seen := make(map[string]bool, len(c.Icons.Densities))
	for _, d := range c.Icons.Densities {
		if strings.TrimSpace(d.Folder) == "" {
			return fmt.Errorf("icons.densities: folder name required")
		}
		if d.Size <= 0 {
			return fmt.Errorf("icons.densities: %s has invalid size %d", d.Folder, d.Size)
		}
		if seen[d.Folder] {
			return fmt.Errorf("icons.densities: duplicate folder %s", d.Folder)
		}
		seen[d.Folder] = true
	}

	if c.Icons.FileName == "" {
		return fmt.Errorf("icons.file_name must not be empty")
	}

	if q := c.Analyze.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("analyze.jpeg_quality must be between 1 and 100, got %d", q)
	}

	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) GetListTimeout() time.Duration {
	return parseDuration(c.Gemini.ListTimeout, 10*time.Second)
}

func (c *Config) GetTextTimeout() time.Duration {
	return parseDuration(c.Gemini.TextTimeout, 30*time.Second)
}

func (c *Config) GetVisionTimeout() time.Duration {
	return parseDuration(c.Gemini.VisionTimeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// MaskKey shortens a credential for display: first 20 and last 10 characters.
// Keys too short to mask that way are fully starred.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 30 {
		return strings.Repeat("*", len(key))
	}
	return key[:20] + "..." + key[len(key)-10:]
}
