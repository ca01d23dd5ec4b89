package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

var logFile *os.File

type lineFormatter struct{}

func (lineFormatter) Format(e *log.Entry) ([]byte, error) {
	level := strings.ToUpper(e.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	return []byte(fmt.Sprintf("[%s] %s: %s\n", e.Time.Format("2006-01-02 15:04:05.000"), level, e.Message)), nil
}

// InitLogger routes log output to stderr, or to logPath when set.
func InitLogger(debug bool, logPath string) error {
	log.SetFormatter(lineFormatter{})
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	var out io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logFile = f
		out = f
	}
	log.SetOutput(out)
	return nil
}

// CloseLogger closes the log file, if any, and routes output back to stderr.
func CloseLogger() {
	if logFile != nil {
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

func Debug(msg string, args ...interface{}) {
	log.Debugf(msg, args...)
}

func Info(msg string, args ...interface{}) {
	log.Infof(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	log.Warnf(msg, args...)
}

func Error(msg string, args ...interface{}) {
	log.Errorf(msg, args...)
}
