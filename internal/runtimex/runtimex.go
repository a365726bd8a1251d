// Package runtimex contains assertions for conditions that can only be
// violated by programming errors.
package runtimex

import "fmt"

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, v ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, v...))
	}
}
