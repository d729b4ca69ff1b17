package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads, decodes, completes and validates a config file. Mask paths
// are expanded against the home directory and the file's directory.
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data, format)
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolvePaths(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded config", "path", path, "axes", len(cfg.Axes), "zones", len(cfg.Zones))
	return cfg, nil
}

// Parse decodes data strictly. source names the data in errors. The result
// has defaults applied but is not validated.
func Parse(source string, data []byte, format Format) (*Config, error) {
	cfg := &Config{Field: defaultField()}
	var err error
	switch format {
	case FormatTOML:
		err = decodeTOML(source, data, cfg)
	case FormatYAML:
		err = decodeYAML(source, data, cfg)
	default:
		err = fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func decodeTOML(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		keys := make([]string, 0, len(strict.Errors))
		for i := range strict.Errors {
			keys = append(keys, strings.Join(strict.Errors[i].Key(), "."))
		}
		return &UnknownKeyError{Path: source, Keys: keys}
	}
	return &ParseError{Path: source, Err: err}
}

var yamlUnknownField = regexp.MustCompile(`field (\S+) not found in type`)

func decodeYAML(source string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		var keys []string
		for _, msg := range typeErr.Errors {
			if m := yamlUnknownField.FindStringSubmatch(msg); m != nil {
				keys = append(keys, m[1])
			}
		}
		if len(keys) == len(typeErr.Errors) {
			return &UnknownKeyError{Path: source, Keys: keys}
		}
	}
	return &ParseError{Path: source, Err: err}
}

// ResolvePaths expands "~" in mask and background image paths and makes
// relative ones relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) error {
	if c.Field.BackgroundImage != "" {
		p, err := resolvePath(c.Field.BackgroundImage, baseDir)
		if err != nil {
			return fmt.Errorf("background image path: %w", err)
		}
		c.Field.BackgroundImage = p
	}
	for i := range c.Zones {
		z := &c.Zones[i]
		if z.Mask == "" {
			continue
		}
		p, err := resolvePath(z.Mask, baseDir)
		if err != nil {
			return fmt.Errorf("zone %q mask path: %w", z.ID, err)
		}
		z.Mask = p
	}
	return nil
}

func resolvePath(path, baseDir string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) && baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	return p, nil
}

// Marshal encodes the config in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
}

// Save writes the config to path in the format its extension names.
func (c *Config) Save(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(format)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
