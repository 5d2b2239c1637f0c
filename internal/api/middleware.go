package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/fastprodman/economyledger/internal/infra/logging"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an id, carries a request-scoped
// logger in the context and logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)

		ctx := logging.With(r.Context(), "requestId", id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		begin := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.FromContext(ctx).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(begin),
		)
	})
}
