package main

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cfsched/internal/job"
	"cfsched/internal/sched"
)

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	tracePath  string
	pace       time.Duration
	metrics    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cfsched <task_file>",
		Short: "Tick-by-tick simulator of the Completely Fair Scheduler",
		Long: `cfsched reads task descriptions, whitespace-separated "<id> <start_tick>
<duration>" triples with '#' comments to end of line, and simulates a single
CPU under CFS, printing one status line per tick:

  <tick> [<alive tasks>]: <running id or _>[* on its final tick]`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				cmd.PrintErrln(cmd.UsageString())
				return err
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return run(cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	// usage only helps with argument mistakes, so it is printed for those alone
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(c.UsageString())
		return err
	})

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	f.StringVar(&opts.tracePath, "trace", "", "Write every scheduler event to this CSV file")
	f.DurationVar(&opts.pace, "pace", 0, "Wall-clock delay between ticks, e.g. 100ms")
	f.BoolVar(&opts.metrics, "metrics", false, "Print run metrics to stderr when done")

	return cmd
}

// config loads the config file, then lets explicitly set flags win.
func (o *options) config(cmd *cobra.Command) (sched.Config, error) {
	cfg, err := sched.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if f.Changed("trace") {
		cfg.TraceCSV = o.tracePath
	}
	if f.Changed("pace") {
		cfg.TickMS = int(o.pace / time.Millisecond)
	}
	if f.Changed("metrics") {
		cfg.Metrics = o.metrics
	}
	return cfg, nil
}

func setupLogging(cfg sched.Config, w io.Writer) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(w)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

func run(cfg sched.Config, path string, stdout, stderr io.Writer) error {
	specs, err := job.Load(path)
	if err != nil {
		return err
	}
	tasks := sched.NewTasks(specs)
	logrus.Infof("Loaded %d tasks from %s", len(tasks), path)

	s := sched.New(cfg, tasks)
	printer := sched.NewStatusPrinter(stdout)
	s.Subscribe(printer)

	if cfg.TraceCSV != "" {
		tw, err := sched.CreateTrace(cfg.TraceCSV)
		if err != nil {
			return err
		}
		s.Subscribe(tw)
		defer func() {
			if err := tw.Close(); err != nil {
				logrus.Errorf("closing trace %s: %v", cfg.TraceCSV, err)
			}
		}()
	}

	runErr := s.Run()
	if err := printer.Flush(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "writing status")
	}
	if runErr != nil {
		return runErr
	}

	logrus.Infof("Simulation complete: %d tasks in %d ticks", s.Completed(), s.Tick())
	if cfg.Metrics {
		s.Metrics().Dump(stderr)
	}
	return nil
}

// Execute runs the CLI and reports a failure on stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
