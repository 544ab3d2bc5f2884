package log

import (
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"
)

/*
A Logger receives the diagnostic output of a webhook call. Debug output
includes the full request URL, which carries the API key, so it should only
be enabled in development.
*/
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
}

type silent struct{}

func (silent) Debugf(string, ...interface{}) {}
func (silent) Infof(string, ...interface{})  {}

/*
Silent returns a Logger that discards everything. It is the default.
*/
func Silent() Logger {
	return silent{}
}

type glogLogger struct {
	level glog.Level
}

/*
Glog returns a Logger that writes through glog. Debug output is only
written when glog runs at verbosity "level" or higher.
*/
func Glog(level glog.Level) Logger {
	return &glogLogger{level: level}
}

func (g *glogLogger) Debugf(format string, v ...interface{}) {
	if glog.V(g.level) {
		glog.InfoDepth(1, fmt.Sprintf(format, v...))
	}
}

func (g *glogLogger) Infof(format string, v ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, v...))
}

type writerLogger struct {
	debugOn bool
	logger  *log.Logger
}

/*
New returns a Logger that writes lines prefixed with "ifttt " to the
writer. Debug lines are only written when "debug" is true.
*/
func New(w io.Writer, debug bool) Logger {
	return &writerLogger{
		debugOn: debug,
		logger:  log.New(w, "ifttt ", log.LstdFlags),
	}
}

func (l *writerLogger) Debugf(format string, v ...interface{}) {
	if l.debugOn {
		l.Infof(format, v...)
	}
}

func (l *writerLogger) Infof(format string, v ...interface{}) {
	l.logger.Printf(format+"\n", v...)
}
