package main

import "time"

// GlobalFlags holds persistent flags shared by every command
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// PolicyFlags overrides the configured termination policy
type PolicyFlags struct {
	Force   bool
	Timeout time.Duration
	Poll    time.Duration
}

// SpawnFlags holds spawn-related flags
type SpawnFlags struct {
	WorkDir  string
	Output   string
	Env      []string
	EnvFiles []string
	JSON     bool
}

// FindFlags holds find-related flags
type FindFlags struct {
	Full bool
}

// StopFlags holds stop-related flags
type StopFlags struct {
	PolicyFlags
}

// StopAllFlags holds stopall-related flags
type StopAllFlags struct {
	PolicyFlags
	Full bool
}

// WaitFlags holds wait-related flags
type WaitFlags struct {
	Timeout time.Duration
}

// LockFlags holds lock-related flags
type LockFlags struct {
	PID       int
	Exclusive bool
}

// RunFlags holds flags for running a command under a lock
type RunFlags struct {
	SpawnFlags
	PolicyFlags
	Lock        string
	Exclusive   bool
	TagStderr   bool
	MaxSizeMB   int
	MetricsAddr string
}
