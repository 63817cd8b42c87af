package cmd

import (
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// toolchainConfig is the optional `--config` YAML file the link and load
// subcommands accept: the default text/data placement bases and output
// path, overridable by `MSP430_TEXT_BASE`/`MSP430_DATA_BASE`/
// `MSP430_OUTPUT` and, above both, by CLI flags.
type toolchainConfig struct {
	TextBase string `yaml:"text_base"`
	DataBase string `yaml:"data_base"`
	Output   string `yaml:"output"`
}

// loadConfig parses cfgFile with yaml.v3 when given, then lets
// MSP430_*-prefixed environment variables (read through viper's
// AutomaticEnv) override the file's value of every field they set.
func loadConfig(cfgFile string) (toolchainConfig, error) {
	var cfg toolchainConfig

	if cfgFile != "" {
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix("MSP430")
	v.AutomaticEnv()

	if s := v.GetString("text_base"); s != "" {
		cfg.TextBase = s
	}
	if s := v.GetString("data_base"); s != "" {
		cfg.DataBase = s
	}
	if s := v.GetString("output"); s != "" {
		cfg.Output = s
	}

	return cfg, nil
}
