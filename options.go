package resfs

import "github.com/dustfall/resfs/log"

type Options struct {
	LogLevel      log.Level
	LogFile       string
	NoTerminalLog bool
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		LogLevel: log.Info,
	}
}

func WithLogLevel(level log.Level) Option {
	return func(opts *Options) error {
		opts.LogLevel = level
		return nil
	}
}

func WithLogFile(file string) Option {
	return func(opts *Options) error {
		opts.LogFile = file
		return nil
	}
}

func WithoutTerminalLog() Option {
	return func(opts *Options) error {
		opts.NoTerminalLog = true
		return nil
	}
}
