package report

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a final report.
type Format int

const (
	FormatPlainText Format = iota
	FormatJSON
	FormatXML
)

// DetailLevel tunes how much context the plain-text rendering carries.
type DetailLevel int

const (
	DetailMinimal DetailLevel = iota
	DetailStandard
	DetailExtended
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	default:
		return "plainText"
	}
}

// MarshalText implements encoding.TextMarshaler so Format round-trips
// through TOML and YAML configuration files.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	switch string(text) {
	case "plainText", "plaintext", "text", "":
		*f = FormatPlainText
	case "json":
		*f = FormatJSON
	case "xml":
		*f = FormatXML
	default:
		return fmt.Errorf("unknown report format %q", text)
	}
	return nil
}

func (d DetailLevel) String() string {
	switch d {
	case DetailMinimal:
		return "minimal"
	case DetailExtended:
		return "extended"
	default:
		return "standard"
	}
}

func (d DetailLevel) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DetailLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "minimal":
		*d = DetailMinimal
	case "standard", "":
		*d = DetailStandard
	case "extended":
		*d = DetailExtended
	default:
		return fmt.Errorf("unknown detail level %q", text)
	}
	return nil
}

// Configuration holds the recognized reporting options.
type Configuration struct {
	Format      Format      `toml:"format" yaml:"format"`
	DetailLevel DetailLevel `toml:"detail_level" yaml:"detail_level"`

	// MaxReports bounds the number of .crash files kept in the report
	// directory; 0 means unlimited. Oldest files are pruned first.
	MaxReports int `toml:"max_reports" yaml:"max_reports"`

	// IncludeSymbolication gates the external addr2line enrichment.
	IncludeSymbolication bool `toml:"include_symbolication" yaml:"include_symbolication"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Format:               FormatPlainText,
		DetailLevel:          DetailStandard,
		MaxReports:           10,
		IncludeSymbolication: true,
	}
}

// LoadConfiguration reads a .toml or .yaml/.yml file over the defaults.
// A missing file is not an error: the defaults are returned as-is.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}
	if err != nil {
		return DefaultConfiguration(), fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}
	if cfg.MaxReports < 0 {
		cfg.MaxReports = 0
	}
	return cfg, nil
}
