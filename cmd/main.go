package main

import (
	goflag "flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	ConfigFile string
	Verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "protomodel",
	Short: "protomodel, model construction and finalization for satisfiable problems",
	Long:  "",
	PersistentPreRun: func(*cobra.Command, []string) {
		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "config file")
	rootCmd.PersistentFlags().Bool("partial", false, "leave function tables partial")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "debug logging")
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(buildCommand)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
