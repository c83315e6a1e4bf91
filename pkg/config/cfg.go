package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/kimtth/jerry-web-render-was/pkg/css"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ViewportConfig struct {
		Width  float64 `yaml:"width" validate:"gt=0,lte=16384"`
		Height float64 `yaml:"height" validate:"gt=0,lte=16384"`
	}

	RenderConfig struct {
		Background string `yaml:"background" validate:"required"`
		Workers    int    `yaml:"workers" validate:"min=1,max=256"`
		UserAgent  bool   `yaml:"user_agent"`
		FitContent bool   `yaml:"fit_content"`
	}

	OutputConfig struct {
		Scale float64 `yaml:"scale" validate:"gt=0,lte=16"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Viewport ViewportConfig `yaml:"viewport"`
		Render   RenderConfig   `yaml:"render"`
		Output   OutputConfig   `yaml:"output"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

// BackgroundColor parses the configured canvas color.
func (conf *RenderConfig) BackgroundColor() (color.NRGBA, error) {
	c, ok := css.ParseColor(conf.Background)
	if !ok {
		return color.NRGBA{}, fmt.Errorf("invalid background color %q", conf.Background)
	}
	return c, nil
}

// checkRender is registered with the validator to reject backgrounds that
// are not CSS colors.
func checkRender(sl validator.StructLevel) {
	conf := sl.Current().Interface().(RenderConfig)
	if _, err := conf.BackgroundColor(); err != nil {
		sl.ReportError(conf.Background, "Background", "background", "csscolor", "")
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	if err := gencfg.Validate(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg.Render, gencfg.WithAdditionalChecks(checkRender))
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Validate re-checks a configuration after command line overrides.
func (cfg *Config) Validate() error {
	return cfg.validate()
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
