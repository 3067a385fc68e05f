package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"turtle/render"
	"turtle/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func (a *app) stepCmd() *cobra.Command {
	var play time.Duration
	cmd := &cobra.Command{
		Use:   "step PROGRAM",
		Short: "Step through a program in the terminal",
		Long: `Opens a full-screen viewer on PROGRAM.

  n, Right, Space  next instruction
  p, Left          previous canvas
  c                clear
  r                run to the end
  a                start or stop autoplay
  q, Esc, Ctrl-C   quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			program, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			s, err := a.newSession()
			if err != nil {
				return err
			}
			s.Load(program)

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to setup terminal: %w", err)
			}
			defer screen.Fini()

			v := terminal.New(screen, s,
				terminal.WithCharset(a.charset()),
				terminal.WithLogger(a.logger),
				terminal.WithTitle(filepath.Base(args[0])),
				terminal.WithAutoplay(play),
			)
			if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&play, "play", 0, "step automatically at this interval, e.g. 300ms")
	return cmd
}

func (a *app) charset() render.Charset {
	switch a.cfg.Viewer.Charset {
	case "unicode":
		return render.Unicode
	case "ascii":
		return render.ASCII
	default:
		return render.DetectCharset()
	}
}
