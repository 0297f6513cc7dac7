package cmd

import (
	"log"

	"github.com/agamordechai/job-matcher/internal/jsearch"
	"github.com/agamordechai/job-matcher/internal/match"
	"github.com/agamordechai/job-matcher/internal/notify"
	"github.com/agamordechai/job-matcher/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-matcher"
)

type Config struct {
	Search     *jsearch.SearchParams `mapstructure:"search"`
	Filter     *match.FilterConfig   `mapstructure:"filter"`
	APIKeyFile string                `mapstructure:"api-key-file"`
	ResumeFile string                `mapstructure:"resume-file"`
	AI         *AIConfig             `mapstructure:"ai"`
	Database   *store.Config         `mapstructure:"database"`
	Redis      *RedisConfig          `mapstructure:"redis"`
	Email      *notify.Config        `mapstructure:"email"`
	Scheduler  *SchedulerConfig      `mapstructure:"scheduler"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL of cached resume profiles, e.g. "24h".
	TTL string `mapstructure:"ttl"`
}

type SchedulerConfig struct {
	// Interval between fetch cycles, e.g. "6h". Empty means run once.
	Interval string `mapstructure:"interval"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-matcher fetches job postings, matches them against your resume and notifies you about the good ones",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api-key-file", "RAPIDAPI_KEY_FILE"); err != nil {
		log.Fatalf("binding RAPIDAPI_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
