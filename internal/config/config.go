package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/user/pjc_analyzer_go/internal/parser"
)

const (
	DefaultReliabilityPattern = `O[Y|N]_TP_\d+`
	DefaultLikelihoodPattern  = `LIKELIHOOD_\d+`
	DefaultVariableLabel      = "Sig Wave Height GT 12-ft"
)

// Config holds the analysis settings that do not come from positional
// arguments.
type Config struct {
	RowPattern         string      `yaml:"row_pattern"`
	ReliabilityPattern string      `yaml:"reliability_pattern"`
	LikelihoodPattern  string      `yaml:"likelihood_pattern"`
	VariableLabel      string      `yaml:"variable_label"`
	OutputDir          string      `yaml:"output_dir"`
	PDFPath            string      `yaml:"pdf"`
	Image              ImageConfig `yaml:"image"`
}

// ImageConfig is the size of each chart, in inches.
type ImageConfig struct {
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
}

// Patterns are the compiled regular expressions of a Config.
type Patterns struct {
	Row         *regexp.Regexp
	Reliability *regexp.Regexp
	Likelihood  *regexp.Regexp
}

func Defaults() Config {
	return Config{
		RowPattern:         parser.DefaultRowPattern,
		ReliabilityPattern: DefaultReliabilityPattern,
		LikelihoodPattern:  DefaultLikelihoodPattern,
		VariableLabel:      DefaultVariableLabel,
		OutputDir:          ".",
		Image:              ImageConfig{WidthIn: 6.4, HeightIn: 4.8},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	return &cfg, nil
}

// Compile validates the config and compiles its patterns.
func (c *Config) Compile() (*Patterns, error) {
	if c.Image.WidthIn <= 0 || c.Image.HeightIn <= 0 {
		return nil, errors.Errorf("image size must be positive, got %gx%g in", c.Image.WidthIn, c.Image.HeightIn)
	}
	var p Patterns
	for _, f := range []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"row_pattern", c.RowPattern, &p.Row},
		{"reliability_pattern", c.ReliabilityPattern, &p.Reliability},
		{"likelihood_pattern", c.LikelihoodPattern, &p.Likelihood},
	} {
		if f.expr == "" {
			return nil, errors.Errorf("%s must not be empty", f.name)
		}
		re, err := regexp.Compile(f.expr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", f.name)
		}
		*f.dst = re
	}
	return &p, nil
}

// String summarizes the config for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("rows=%q reliability=%q likelihood=%q out=%s image=%gx%gin",
		c.RowPattern, c.ReliabilityPattern, c.LikelihoodPattern, c.OutputDir, c.Image.WidthIn, c.Image.HeightIn)
}
