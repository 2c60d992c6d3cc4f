package cli

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/ppiankov/regulqa/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the CLI version, overridden at build time with -ldflags
var Version = "v0.3.0"

var (
	cfgFile string
	rootDir string
	verbose bool
	workers int
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "regulqa",
	Short: "RegulQA - requirement ambiguity corpus builder",
	Long: `RegulQA builds a corpus of natural-language requirements for regulated
domains (automotive, medical, aerospace, ...) and weak-labels it for
ambiguity.

Stages:
  fetch-t1    download the public T1 datasets (PURE, Promise+, Trick SRS)
  fetch       download the domain documents listed in sources_t3.yaml
  extract     turn downloaded documents into requirement CSVs
  convert-t1  turn T1 markup datasets into CSVs
  synth       generate the synthetic T2 table
  pool        merge all raw tables into one deduplicated pool
  label       apply the ambiguity rule bank to the pool

Labels are heuristic suggestions for human review, not ground truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of RegulQA.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("regulqa %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.regulqa/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root holding data/ and config/ (overrides paths.root)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of concurrent workers (overrides concurrency.workers)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.regulqa")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match REGULQA_*, e.g.
	// REGULQA_PATHS_ROOT for paths.root
	viper.SetEnvPrefix("REGULQA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	registerDefaults("", reflect.ValueOf(*model.DefaultConfig()))

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and global flags over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if rootDir != "" {
		cfg.Paths.Root = rootDir
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// registerDefaults makes every config key known to viper so that Unmarshal
// consults the environment for it
func registerDefaults(prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			registerDefaults(key, field)
			continue
		}
		viper.SetDefault(key, field.Interface())
	}
}
