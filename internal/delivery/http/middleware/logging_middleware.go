package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"clinic-records/pkg/response"

	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

// AccessLog writes combined-format access lines to out. The caller owns out and
// closes it on shutdown when it is a logrus pipe.
func AccessLog(out io.Writer, next http.Handler) http.Handler {
	return handlers.CombinedLoggingHandler(out, next)
}

// Recover turns handler panics into the standard 500 envelope and logs them.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			entry := log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path})
			if log.IsLevelEnabled(logrus.DebugLevel) {
				entry = entry.WithField("stack", string(debug.Stack()))
			}
			entry.Errorf("Recovered from panic: %v", rec)

			response.InternalServerError(w, "Internal server error", fmt.Errorf("%v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
