/*
	Copyright 2026 Raceday Engineering
*/

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/raceday/pitwall/log"
	orderCmd "github.com/raceday/pitwall/pkg/cmd/order"
	recommendCmd "github.com/raceday/pitwall/pkg/cmd/recommend"
	replayCmd "github.com/raceday/pitwall/pkg/cmd/replay"
	"github.com/raceday/pitwall/pkg/config"
	"github.com/raceday/pitwall/version"
)

const envPrefix = "PITWALL"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "pitwall",
	Short:   "Pit strategy decision engine for race engineers",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:lll // readability
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.pitwall.yml)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"controls the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter, "log-filter",
		"",
		"zapfilter rules for per-logger levels (e.g. 'debug:traffic,session *:*')")
	rootCmd.PersistentFlags().StringVar(&config.ParamsFile, "params", "",
		"yaml file overriding strategy heuristics")
	rootCmd.PersistentFlags().IntVar(&config.TargetStint, "target-stint", 20,
		"target stint length in laps")
	rootCmd.PersistentFlags().Float64Var(&config.PitTimeCost, "pit-cost", 20.0,
		"green flag pit stop cost in seconds")
	rootCmd.PersistentFlags().Float64Var(&config.DegradationRate, "degradation", 0.15,
		"tyre degradation in seconds per lap")
	rootCmd.PersistentFlags().IntVar(&config.TotalLaps, "total-laps", 50,
		"total race laps")
	rootCmd.PersistentFlags().Float64Var(&config.CautionsPerRace, "cautions-per-race", 2.0,
		"expected caution periods per race")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTraffic, "traffic", true,
		"enable traffic analysis when field data is available")
	rootCmd.PersistentFlags().BoolVar(&config.EnableCaution, "caution", false,
		"enable caution probability analysis")

	// add commands here
	rootCmd.AddCommand(replayCmd.NewReplayCmd())
	rootCmd.AddCommand(recommendCmd.NewRecommendCmd())
	rootCmd.AddCommand(orderCmd.NewOrderCmd())
}

func initLogging() error {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", config.LogLevel, err)
	}
	var logger *log.Logger
	if config.LogFilter != "" {
		logger, err = log.NewWithFilters(os.Stderr, level, config.LogFilter)
		if err != nil {
			return err
		}
	} else {
		logger = log.DevLogger(os.Stderr, level)
	}
	log.ResetDefault(logger)
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pitwall" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pitwall")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --pit-cost to PITWALL_PIT_COST
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
