package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/eglpi/internal/app"
	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/egl"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/spf13/cobra"
)

var runFPS int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the display and run the frame loop until Esc",
	Long: `Initialize the EGL context on the VideoCore display, poll the keyboard and
mouse once per frame, present, and tear everything down when Esc is pressed or
the process is interrupted.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runFPS, "fps", -1, "frame rate cap, 0 for unpaced (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	driver, compositor, err := egl.NewPlatform(cfg.Display.DisplayID, cfg.Display.Layer)
	if err != nil {
		return err
	}
	manager := egl.NewManager(driver, compositor)

	gc, err := manager.Initialize()
	if err != nil {
		// Initialize has already released whatever it created
		logger.Error("Graphics bootstrap failed", "error", err)
		return err
	}

	in, err := app.NewInput(cfg.Input, gc.Width, gc.Height, nil)
	if err != nil {
		return errors.Join(err, manager.Shutdown(gc))
	}

	target := app.NewLoggingTarget()
	loop := in.Loop(target)
	loop.FPS = cfg.Display.FPS
	if runFPS >= 0 {
		loop.FPS = runFPS
	}
	loop.Present = func() error {
		return manager.Present(gc)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Frame loop started", "width", gc.Width, "height", gc.Height, "fps", loop.FPS,
		"mouse", cfg.Input.MouseDevice, "keyboard", cfg.Input.KeyboardDevice)
	runErr := loop.Run(ctx)

	shutdownErr := manager.Shutdown(gc, in.Devices.Closer(in.State))
	if shutdownErr != nil {
		logger.Warn("Shutdown finished with errors", "error", shutdownErr)
	}
	logger.Info("Shutdown complete", "frames", loop.Frames())

	return errors.Join(runErr, shutdownErr)
}
