// Package monitoring holds the diagnostic logger shared by the library
// packages. Commands leave it on log.Printf; tests usually mute it.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Replace it before starting a run, not during one.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs through Logf with a "warning: " prefix after the component tag.
func Warnf(component, format string, v ...interface{}) {
	Logf("["+component+"] warning: "+format, v...)
}
