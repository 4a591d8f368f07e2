package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateConfig configFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration and print the effective values",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := validateConfig.build(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if err := writeEncoded(cmd.OutOrStdout(), formatYAML, cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Configuration is valid.")
	},
}

func init() {
	validateConfig.register(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
