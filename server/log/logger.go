// Package log declares the logging behavior that the server's components depend on.
package log

// Logger writes formatted lines.
// A *log.Logger from the standard library satisfies it, as does one made by zap.NewStdLog.
type Logger interface {
	// Printf writes the values, formatted in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}
