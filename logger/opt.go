package logger

import "log"

// A LoggerOptFn is a functional option configuring a PortalLogger when constructing a new one.
type LoggerOptFn func(*PortalLogger)

// WithEnv sets the environment PortalLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *PortalLogger) {
		l.env = env
	}
}

// WithLevel sets the log level PortalLogger uses.
// LogLevelUnk is ignored.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *PortalLogger) {
		if level == LogLevelUnk {
			return
		}

		l.ll = level
	}
}

// WithLogger sets the log.Logger PortalLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *PortalLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *PortalLogger) {
		l.skip = skip
	}
}
