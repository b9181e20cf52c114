package engine

// Flush describes one verified page write.
type Flush struct {
	// Start is the address of the first byte written
	Start uint16

	// Count is the number of bytes in the burst
	Count int

	// Polls is the number of reads the final verification took
	Polls int
}

// FlushCallback is called after every verified page write.
// Implementations should return quickly; the memory bus is held meanwhile.
type FlushCallback func(Flush)

// Logger is an optional logging interface that can be provided to the engine.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	eng := engine.New(b, engine.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
