package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/bnema/eglpi/internal/app"
	"github.com/bnema/eglpi/internal/config"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/bnema/eglpi/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	watchWidth  int
	watchHeight int
	watchFPS    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show decoded pointer and key commands live, without a display",
	Long: `Poll the configured mouse and keyboard exactly like 'eglpi run' does and show
the cursor, normalized coordinates and commands in the terminal. No EGL context
is created. Esc on the device keyboard or q here stops it.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchWidth, "width", 1920, "virtual screen width used for clamping")
	watchCmd.Flags().IntVar(&watchHeight, "height", 1080, "virtual screen height used for clamping")
	watchCmd.Flags().IntVar(&watchFPS, "fps", 60, "polls per second")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", watchFPS)
	}

	in, err := app.NewInput(config.Get().Input, watchWidth, watchHeight, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			logger.Warnf("Failed to close input devices: %v", err)
		}
	}()

	// Commands are shown by the view instead of being logged over it
	loop := in.Loop(nil)
	sample := func() ui.Sample {
		res := loop.Step()
		cx, cy := in.State.Cursor()
		mouse, keyboard := in.Devices.Status(in.State)
		return ui.Sample{
			Command:  res.Command.String(),
			X:        res.X,
			Y:        res.Y,
			CursorX:  cx,
			CursorY:  cy,
			Mouse:    mouse,
			Keyboard: keyboard,
			Closed:   in.State.ShouldClose(),
		}
	}

	// Console logging would draw over the view; the log file, if enabled, still gets it
	restore := logger.Redirect(io.Discard)
	defer restore()

	model := ui.NewWatchModel(sample, time.Second/time.Duration(watchFPS))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("watch view failed: %w", err)
	}
	return nil
}
