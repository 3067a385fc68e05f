package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"turtle/config"
	"turtle/engine"
	"turtle/events"
	"turtle/export"
	"turtle/history"
	"turtle/logging"
	"turtle/script"
	"turtle/server"

	"github.com/spf13/cobra"
)

// app carries the resolved configuration between cobra hooks.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	width      float64
	height     float64

	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
	stderr io.Writer
}

func main() {
	a := &app{stderr: os.Stderr}
	if err := a.execute(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line in args. The log file, if any, is closed on
// return whether or not the command failed.
func (a *app) execute(args []string, stdout io.Writer) error {
	defer a.close()
	root := a.rootCmd()
	root.SetOut(stdout)
	root.SetArgs(args)
	return root.Execute()
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "turtle",
		Short:        "Turtle graphics with undo, closed-area detection and export",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetErr(a.stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFile, "log-file", "", "append JSON logs to this file")
	f.Float64Var(&a.width, "width", 0, "canvas width")
	f.Float64Var(&a.height, "height", 0, "canvas height")

	root.AddCommand(a.runCmd(), a.stepCmd(), a.serveCmd())
	return root
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = a.width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = a.height
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	w := a.stderr
	if cmd.Name() == "step" {
		// The viewer owns the terminal.
		w = io.Discard
	}
	a.logger, a.closer, err = logging.New(cfg.Log, w)
	return err
}

func (a *app) newSession() (*history.Session, error) {
	start, err := a.cfg.Canvas.NewCanvas()
	if err != nil {
		return nil, err
	}
	e := engine.New(
		engine.WithSink(events.LogSink{Logger: a.logger}),
		engine.WithLogger(a.logger),
		engine.WithMaxSteps(a.cfg.Engine.MaxSteps),
	)
	return history.New(start, history.WithEngine(e), history.WithLogger(a.logger)), nil
}

func loadProgram(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	program, err := script.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}

func (a *app) runCmd() *cobra.Command {
	var out, format string
	var color bool
	cmd := &cobra.Command{
		Use:   "run PROGRAM",
		Short: "Execute a program and export the final canvas",
		Long: `Executes every instruction of PROGRAM. Rejected instructions are reported
and skipped. The final canvas is written to PROGRAM.out.txt unless --out or
--format say otherwise. Use --out - for stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Export.Format = format
			}
			return a.run(cmd.OutOrStdout(), args[0], out, color)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format: text, json, svg, ascii, pdf, png")
	cmd.Flags().BoolVar(&color, "color", false, "colored ascii output for terminals")
	return cmd
}

func (a *app) run(stdout io.Writer, path, out string, color bool) error {
	program, err := loadProgram(path)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(a.cfg.Export.Format)
	if err != nil {
		return err
	}
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	if art, ok := exp.(*export.ASCIIExporter); ok {
		art.Color = color
	}

	s, err := a.newSession()
	if err != nil {
		return err
	}
	s.Load(program)
	final, runErr := s.RunAll()
	if runErr != nil {
		for _, e := range unwrapJoined(runErr) {
			fmt.Fprintf(a.stderr, "warning: %v\n", e)
		}
	}

	var w io.Writer = stdout
	if out != "-" {
		if out == "" {
			out = path + exp.GetFileExtension()
			if a.cfg.Export.Dir != "" {
				out = filepath.Join(a.cfg.Export.Dir, filepath.Base(out))
			}
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := exp.Export(w, final); err != nil {
		return fmt.Errorf("export %s: %w", exp.GetFormatName(), err)
	}
	a.logger.Info("program finished",
		"instructions", len(program),
		"segments", final.NumSegments(),
		"areas", final.NumAreas(),
		"output", out)
	return nil
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	var mdnsOn bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("mdns") {
				a.cfg.Server.MDNS = mdnsOn
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().BoolVar(&mdnsOn, "mdns", false, "advertise the server with mDNS")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	sc := a.cfg.Server
	srv := server.New(a.cfg.Canvas.NewCanvas,
		server.WithLogger(a.logger),
		server.WithMaxSessions(sc.MaxSessions),
		server.WithHistoryLimit(sc.HistoryLimit),
		server.WithMaxSteps(a.cfg.Engine.MaxSteps),
	)

	if sc.MDNS {
		_, portText, err := net.SplitHostPort(sc.Addr)
		if err != nil {
			return err
		}
		port, err := strconv.Atoi(portText)
		if err != nil {
			return fmt.Errorf("mdns port: %w", err)
		}
		adv, err := server.Advertise(sc.Instance, port)
		if err != nil {
			return err
		}
		defer adv.Shutdown()
		a.logger.Info("advertising service", "type", server.ServiceType, "port", port)
	}

	err := srv.ListenAndServe(ctx, sc.Addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
