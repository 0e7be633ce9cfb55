package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared line-oriented logger. Request logging and audit
// events both write through it, one JSON object per line, so the service's
// stdout stays machine-parseable.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		// No prefix and no flags: every line is a self-contained JSON object
		// carrying its own ts field.
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one JSON line for a completed request. Callers fill the
// fields (ts, msg, request_id, method, path, status, duration_ms); nothing is
// added here.
func LogRequest(fields map[string]any) {
	line, err := json.Marshal(fields)
	if err != nil {
		Logger().Println(`{"ts":"error","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(line))
}
