package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/appsentry/appsentry/internal/logger"
)

const defaultConfigFile = "appsentry.toml"

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	flags := &GlobalFlags{}
	runFlags := &RunFlags{}
	histFlags := &HistoryFlags{}

	root := &cobra.Command{
		Use:           "appsentry",
		Short:         "Lifecycle wrapper for one background application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Usage()
			return errors.New("expected one of: start, stop, restart, status, run, history")
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "TOML config file (default "+defaultConfigFile+" when present)")
	pf.StringVar(&flags.Name, "name", "", "application name")
	pf.StringVar(&flags.CmdStr, "cmd", "", "command line to launch the application")
	pf.StringVar(&flags.WorkDir, "workdir", "", "working directory for the application")
	pf.StringVar(&flags.PIDFile, "pidfile", "", "PID record path")
	pf.StringVar(&flags.LogFile, "logfile", "", "child log destination")
	pf.DurationVar(&flags.StartSecs, "startsecs", 0, "how long the application must stay up after start")
	pf.DurationVar(&flags.StopWait, "stop-wait", 0, "grace period before forceful kill")
	pf.DurationVar(&flags.RestartInterval, "restart-interval", 0, "pause between stop and start on restart")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "debug logging")

	c := &command{flags: flags}

	root.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start the application in the background",
			RunE:  func(cmd *cobra.Command, _ []string) error { return c.Start(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the application",
			RunE:  func(cmd *cobra.Command, _ []string) error { return c.Stop(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "restart",
			Short: "Restart the application",
			RunE:  func(cmd *cobra.Command, _ []string) error { return c.Restart(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the application is running",
			RunE:  func(cmd *cobra.Command, _ []string) error { return c.Status() },
		},
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Supervise the application in the foreground",
		RunE:  func(cmd *cobra.Command, _ []string) error { return c.Run(cmd.Context(), *runFlags) },
	}
	runCmd.Flags().BoolVar(&runFlags.AutoRestart, "autorestart", false, "restart the application when it exits unexpectedly")
	runCmd.Flags().StringVar(&runFlags.Listen, "listen", "", "serve status/metrics HTTP on this address")
	root.AddCommand(runCmd)

	histCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lifecycle events",
		RunE:  func(cmd *cobra.Command, _ []string) error { return c.History(cmd.Context(), *histFlags) },
	}
	histCmd.Flags().IntVar(&histFlags.Limit, "limit", 20, "maximum events to list")
	root.AddCommand(histCmd)

	return root
}

func (c *command) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.flags.Verbose {
		level = slog.LevelDebug
	}
	return logger.NewConsole(level)
}
