package debug

import (
	"fmt"
	"log"
	"time"
)

// Header prints a trace section header when tracing is enabled.
func Header(enabled bool) {
	if enabled {
		log.Printf("=== TRACE START ===")
	}
}

// Footer closes a trace section when tracing is enabled.
func Footer(enabled bool) {
	if enabled {
		log.Printf("=== TRACE END ===")
	}
}

// Output prints a timestamped trace line when tracing is enabled.
func Output(enabled bool, format string, args ...interface{}) {
	if enabled {
		message := fmt.Sprintf(format, args...)
		log.Printf("[%s] %s", time.Now().Format("15:04:05.000"), message)
	}
}

// Timing measures and logs the duration of an operation when tracing is
// enabled. Use as: defer debug.Timing(enabled, "prefetch")().
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}
	start := time.Now()
	Output(enabled, "starting: %s", operation)
	return func() {
		Output(enabled, "completed: %s (took %v)", operation, time.Since(start))
	}
}
