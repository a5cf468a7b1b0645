package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// YNAB holds the credentials for the optional push target.
type YNAB struct {
	Token     string `mapstructure:"token"`
	BudgetID  string `mapstructure:"budget_id"`
	AccountID string `mapstructure:"account_id"`
}

// Config is the application configuration, merged from the config file,
// environment (EXTRATO_ prefix) and command-line flags.
type Config struct {
	OutputPath string `mapstructure:"output_path"`
	ListenAddr string `mapstructure:"listen_addr"`
	RulesPath  string `mapstructure:"rules_path"`
	YNAB       YNAB   `mapstructure:"ynab"`
}

// Build loads the configuration. cfgFile overrides the default lookup of
// ./config.yaml; a missing config file is fine, flags and env still apply.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", "0.0.0.0:3000")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("EXTRATO")
	v.AutomaticEnv()

	if flags != nil {
		bindFlag(v, flags, "output_path", "output")
		bindFlag(v, flags, "listen_addr", "listen")
		bindFlag(v, flags, "rules_path", "rules")
		bindFlag(v, flags, "ynab.token", "token")
		bindFlag(v, flags, "ynab.budget_id", "budget")
		bindFlag(v, flags, "ynab.account_id", "account")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, flagName string) {
	if f := flags.Lookup(flagName); f != nil {
		_ = v.BindPFlag(key, f)
	}
}
