package eprbridge

// Logger is the logging interface used by the bridge. It is out of the box
// compatible with `log.Log` in `apex/log`.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// DiscardLogger discards its input
var DiscardLogger Logger = logDiscarder{}

type logDiscarder struct{}

func (logDiscarder) Debugf(format string, v ...interface{}) {}

func (logDiscarder) Infof(format string, v ...interface{}) {}

func (logDiscarder) Warnf(format string, v ...interface{}) {}
