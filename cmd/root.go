package cmd

import (
	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configFile string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "eglpi",
		Short: "eglpi - bare-metal GLES2 host for the Raspberry Pi",
		Long: `eglpi opens a fullscreen OpenGL ES 2 surface on the Raspberry Pi VideoCore
display without X or Wayland, reads the pointer from a PS/2 mousedev node and
keys from an evdev node, and turns them into renderer commands every frame.`,
		SilenceUsage:      true,
		PersistentPreRunE: initRuntime,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches /etc/eglpi, ~/.config/eglpi and .)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides EGLPI_LOG_LEVEL)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(injectCmd)
}

// initRuntime loads the configuration and applies the logging settings
func initRuntime(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.Init(); err != nil {
		return err
	}

	cfg := config.Get()
	switch {
	case logLevel != "":
		logger.SetLevel(logLevel)
	case cfg.Logging.LogLevel != "":
		logger.SetLevel(cfg.Logging.LogLevel)
	}

	if cfg.Logging.FileLogging {
		if err := logger.EnableFileLogging(logger.DefaultLogPath()); err != nil {
			logger.Warnf("File logging disabled: %v", err)
		}
	}
	return nil
}
