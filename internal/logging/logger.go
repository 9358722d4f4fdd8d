// Package logging provides the small leveled logger shared by the mod
// loading pipeline and its host. It wraps the standard library's log.Logger
// so call sites can write Info/Warn/Error lines without caring whether a
// host has wired up a real writer yet.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)
	debug  bool
)

// Init points the package logger at a log file, creating its parent
// directory if necessary, and tees output to any extra writers supplied
// (e.g. os.Stdout when running in raw/CI mode).
func Init(logFilePath string, extraWriters ...io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}

	writers := append([]io.Writer{logFile}, extraWriters...)
	logger = log.New(io.MultiWriter(writers...), "", log.LstdFlags)
	logger.Println("Logging initialized.")
	return nil
}

// SetOutput redirects the package logger to w without touching a log file.
// Tests and short-lived CLI invocations use this instead of Init.
func SetOutput(w io.Writer) {
	logger = log.New(w, "", log.LstdFlags)
}

// SetDebug toggles whether Debug/Debugf calls are emitted.
func SetDebug(enable bool) {
	debug = enable
}

func Info(v ...interface{}) { logger.Println(v...) }

func Infof(format string, v ...interface{}) { logger.Printf(format, v...) }

func Warn(v ...interface{}) { logger.Println(append([]interface{}{"WARN:"}, v...)...) }

func Warnf(format string, v ...interface{}) { logger.Printf("WARN: "+format, v...) }

func Error(v ...interface{}) { logger.Println(append([]interface{}{"ERROR:"}, v...)...) }

func Errorf(format string, v ...interface{}) { logger.Printf("ERROR: "+format, v...) }

func Debug(v ...interface{}) {
	if !debug {
		return
	}
	logger.Println(append([]interface{}{"DEBUG:"}, v...)...)
}

func Debugf(format string, v ...interface{}) {
	if !debug {
		return
	}
	logger.Printf("DEBUG: "+format, v...)
}
