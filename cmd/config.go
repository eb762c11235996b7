package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage eglpi configuration",
	Long:  `Manage eglpi configuration including input devices and display settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Config file: %s\n\n", config.GetConfigPath())

		fmt.Fprintln(out, "[input]")
		fmt.Fprintf(out, "  mouse_device = %s\n", cfg.Input.MouseDevice)
		fmt.Fprintf(out, "  keyboard_device = %s\n", cfg.Input.KeyboardDevice)
		fmt.Fprintf(out, "  scroll_mode = %v\n", cfg.Input.ScrollMode)
		fmt.Fprintf(out, "  keyboard_layout = %s\n", cfg.Input.KeyboardLayout)

		fmt.Fprintln(out, "\n[display]")
		fmt.Fprintf(out, "  display_id = %d\n", cfg.Display.DisplayID)
		fmt.Fprintf(out, "  layer = %d\n", cfg.Display.Layer)
		fmt.Fprintf(out, "  fps = %d\n", cfg.Display.FPS)

		fmt.Fprintln(out, "\n[logging]")
		fmt.Fprintf(out, "  file_logging = %v\n", cfg.Logging.FileLogging)
		fmt.Fprintf(out, "  log_level = %s\n", cfg.Logging.LogLevel)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		if err := config.Save(); err != nil {
			return err
		}

		logger.Infof("Configuration initialized at: %s", configPath)
		logger.Info("You can now:")
		logger.Info("  - Edit the configuration file directly")
		logger.Info("  - Use 'eglpi devices select' to pick the input devices")
		logger.Info("  - Use 'eglpi config show' to view current settings")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")
}
