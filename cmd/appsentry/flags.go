package main

import "time"

// GlobalFlags holds persistent flags shared by all subcommands. Flag values
// override the config file; zero values mean "not set".
type GlobalFlags struct {
	ConfigPath      string
	Name            string
	CmdStr          string
	WorkDir         string
	PIDFile         string
	LogFile         string
	StartSecs       time.Duration
	StopWait        time.Duration
	RestartInterval time.Duration
	Verbose         bool
}

// RunFlags holds flags specific to the resident run mode.
type RunFlags struct {
	AutoRestart bool
	Listen      string
}

// HistoryFlags holds flags for the history listing.
type HistoryFlags struct {
	Limit int
}
