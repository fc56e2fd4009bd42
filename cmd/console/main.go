package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwalitptl/care-console/internal/config"
	"github.com/jwalitptl/care-console/pkg/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	root := &cobra.Command{
		Use:          "console",
		Short:        "Healthcare management console",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yml or ./config/config.yml)")

	root.AddCommand(
		newServeCmd(v, &configPath),
		newActivityCmd(v, &configPath),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and installs the configured logger as the
// global one the HTTP middleware writes to.
func setup(v *viper.Viper, configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, nil, err
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		JSON:       cfg.Log.Format == "json",
	})
	log.Logger = appLogger.ZL
	return cfg, appLogger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the console version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}
