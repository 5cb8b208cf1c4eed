// Package log provides the leveled logger used by the research pipeline.
//
// Logger is a small printf-style interface so that steps, collaborators and
// the HTTP layer can log without depending on a concrete backend. The
// default implementation, GologLogger, is backed by github.com/kataras/golog.
//
//	logger := log.NewDefaultGologLogger(log.LogLevelDebug)
//	logger.Info("Searching for: '%s'", query)
//
// A package-level logger is available through Debug, Info, Warn and Error;
// replace it with SetDefaultLogger or SetLogLevel. Tests usually pass a
// NoOpLogger or a NewWriterLogger over a bytes.Buffer.
package log
