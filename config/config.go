package config

import (
	"dql/parser"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
)

const (
	FormatTree = "tree"
	FormatJson = "json"
	FormatYaml = "yaml"
)

var outputFormats = []string{FormatTree, FormatJson, FormatYaml}

var loggingLevels = []string{"info", "debug", "trace"}

type Config struct {
	Logging string       `yaml:"logging"`
	Parser  ParserConfig `yaml:"parser"`
	Server  ServerConfig `yaml:"server"`
	Repl    ReplConfig   `yaml:"repl"`
	Output  OutputConfig `yaml:"output"`
}

type ParserConfig struct {
	MaxDepth                int  `yaml:"maxDepth"`
	CaseInsensitiveKeywords bool `yaml:"caseInsensitiveKeywords"`
	Recover                 bool `yaml:"recover"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// MaxQueryLength is the maximum number of bytes of a request body. Larger requests are rejected.
	MaxQueryLength int64 `yaml:"maxQueryLength"`
}

type ReplConfig struct {
	// HistoryFile stores the entered lines between sessions. An empty value disables the history file.
	HistoryFile string `yaml:"historyFile"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

func Defaults() *Config {
	return &Config{
		Logging: "info",
		Parser: ParserConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
		Server: ServerConfig{
			Port:           "8080",
			MaxQueryLength: 1 << 20,
		},
		Repl: ReplConfig{
			HistoryFile: ".dql_history",
		},
		Output: OutputConfig{
			Format: FormatTree,
		},
	}
}

// Load reads the YAML file at the given path. Values not set in the file keep their default. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		sigolo.Debugf("No config file given, use defaults")
		return cfg, nil
	}

	sigolo.Debugf("Load config file %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read config file %s", path)
	}

	cfg, err = Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to load config file %s", path)
	}

	return cfg, nil
}

// Parse reads the YAML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to parse config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if !contains(loggingLevels, c.Logging) {
		return errors.Errorf("Invalid logging level '%s', expected one of %v", c.Logging, loggingLevels)
	}
	if c.Parser.MaxDepth <= 0 {
		return errors.Errorf("Invalid parser.maxDepth %d, must be positive", c.Parser.MaxDepth)
	}
	if !contains(outputFormats, c.Output.Format) {
		return errors.Errorf("Invalid output.format '%s', expected one of %v", c.Output.Format, outputFormats)
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.Errorf("Invalid server.port '%s', expected a number between 1 and 65535", c.Server.Port)
	}
	if c.Server.MaxQueryLength <= 0 {
		return errors.Errorf("Invalid server.maxQueryLength %d, must be positive", c.Server.MaxQueryLength)
	}

	return nil
}

func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxDepth:                c.Parser.MaxDepth,
		CaseInsensitiveKeywords: c.Parser.CaseInsensitiveKeywords,
		Recover:                 c.Parser.Recover,
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
