package middleware

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		log.Printf("[%s] %s - Host: %s, Path: %s, RequestID: %s", r.Method, r.URL.Path, r.Host, r.URL.RequestURI(), requestID)
		next.ServeHTTP(w, r)
	})
}
