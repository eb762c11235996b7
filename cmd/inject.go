package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/eglpi/internal/inject"
	"github.com/bnema/eglpi/internal/logger"
	"github.com/spf13/cobra"
)

var (
	injectUinput string
	injectSettle time.Duration
	injectGap    time.Duration
)

var injectCmd = &cobra.Command{
	Use:   "inject <step>...",
	Short: "Replay pointer moves and key presses through a virtual uinput device",
	Long: `Create a virtual mouse and keyboard through uinput and replay the given steps,
so a running 'eglpi run' or 'eglpi watch' can be checked without touching the
hardware. Point the config at the virtual devices' nodes first.

Steps:
  move:DX,DY     relative pointer motion
  key:NAME       press and release a key (esc, right, pageup, ... or a code)
  wait:DURATION  pause, e.g. wait:250ms`,
	Example: "  eglpi inject move:10,0 key:right wait:1s key:esc",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runInject,
}

func init() {
	injectCmd.Flags().StringVar(&injectUinput, "uinput", inject.DefaultUinputPath, "uinput control node")
	injectCmd.Flags().DurationVar(&injectSettle, "settle", 500*time.Millisecond, "delay after creating the devices so readers can find them")
	injectCmd.Flags().DurationVar(&injectGap, "gap", 20*time.Millisecond, "delay between steps")
}

func runInject(cmd *cobra.Command, args []string) error {
	steps, err := inject.ParseScript(args)
	if err != nil {
		return err
	}

	injector, err := inject.Open(injectUinput, "eglpi virtual")
	if err != nil {
		return err
	}
	injector.Gap = injectGap

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(injectSettle):
	}

	runErr := injector.Run(ctx, steps)
	if ctx.Err() != nil && errors.Is(runErr, ctx.Err()) {
		logger.Info("Injection interrupted")
		runErr = nil
	} else if runErr == nil {
		logger.Info("Injection complete", "steps", len(steps))
	}

	return errors.Join(runErr, injector.Close())
}
