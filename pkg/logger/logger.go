package logger

import "log"

type Logger struct{}

func New() *Logger { return &Logger{} }

func (l *Logger) Infof(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}

// Progress returns a sink that logs progress messages at info level.
func (l *Logger) Progress() func(msg string) {
	return func(msg string) { l.Infof("%s", msg) }
}
