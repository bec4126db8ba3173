/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-psu"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	logger  = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "psuctl",
	Short: "Control a bench power supply over its serial line",
	Long: `psuctl talks to KORAD/Tenma style bench power supplies over USB or RS-232.

Every command opens the device, sends one ASCII instruction, reads the reply
and closes the device again.

Settings are read from flags, PSU_* environment variables and an optional
config file ($HOME/.psuctl.yaml):

  device: /dev/ttyACM0
  baud: 9600
  timeout: 100ms
  log-level: warn
  log-file: ""
  watch:
    interval: 1s
    channels: [1]

Example usage:
  psuctl voltage 1 12
  psuctl current 1 --realtime
  psuctl output on
  PSU_DEVICE=/dev/ttyUSB0 psuctl status`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		logger, err = newLogger(s, cmd.Name() != watchCommandName)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.psuctl.yaml)")
	rootCmd.PersistentFlags().StringP("device", "d", psu.DefaultDevice, "Serial device of the power supply")
	rootCmd.PersistentFlags().IntP("baud", "b", 9600, "Baud rate")
	rootCmd.PersistentFlags().Duration("timeout", 100*time.Millisecond, "Read timeout, in steps of 100ms")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file, rotated")

	for _, name := range []string{"device", "baud", "timeout", "log-level", "log-file"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	viper.SetDefault("watch.interval", time.Second)
	viper.SetDefault("watch.channels", []int{1})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".psuctl")
	}

	viper.SetEnvPrefix("PSU")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}
