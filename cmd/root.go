package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "connector"
)

type Config struct {
	Enrichment *EnrichmentConfig `mapstructure:"enrichment"`
	AI         *AIConfig         `mapstructure:"ai"`
	Sending    *SendingConfig    `mapstructure:"sending"`
	Output     *OutputConfig     `mapstructure:"output"`
}

type EnrichmentConfig struct {
	ApolloAPIKey  string `mapstructure:"apollo-api-key"`
	AnymailAPIKey string `mapstructure:"anymail-api-key"`
	CachePath     string `mapstructure:"cache-path"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type SendingConfig struct {
	Provider            string `mapstructure:"provider"`
	InstantlyAPIKey     string `mapstructure:"instantly-api-key"`
	PlusvibeAPIKey      string `mapstructure:"plusvibe-api-key"`
	PlusvibeWorkspaceID string `mapstructure:"plusvibe-workspace-id"`
	DemandCampaignID    string `mapstructure:"demand-campaign-id"`
	SupplyCampaignID    string `mapstructure:"supply-campaign-id"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "connector matches demand and supply records and automates campaign delivery",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is connector.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// API keys commonly live in a .env next to the CSVs. Absence is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but one that fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Enrichment == nil {
		config.Enrichment = &EnrichmentConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Sending == nil {
		config.Sending = &SendingConfig{}
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}

	return config, nil
}
