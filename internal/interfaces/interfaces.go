package interfaces

import "context"

type ILogger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})

	Named(name string) ILogger
	With(args ...interface{}) ILogger
	Sync() error
}

// Runnable is a long-lived component started by the entrypoint, it returns when ctx is cancelled
type Runnable interface {
	Run(ctx context.Context) error
}
