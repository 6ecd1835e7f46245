package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	logs "github.com/wwpdb/onedep-io/logs"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
)

func requestIdMiddleWare(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			return
		}
		requestID := r.Header.Get(server_handlers.RequestIdKey)
		if requestID == "" {
			// set a new request id header of request
			requestID = uuid.New().String()
			r.Header.Set(server_handlers.RequestIdKey, requestID)
		}
		spanId := oteltrace.SpanFromContext(r.Context()).SpanContext().SpanID().String()
		traceId := oteltrace.SpanFromContext(r.Context()).SpanContext().TraceID().String()
		if spanId == "0000000000000000" {
			spanId = ""
		}
		if traceId == "00000000000000000000000000000000" {
			traceId = ""
		}
		r = r.WithContext(logs.NewContext(r.Context(), zap.String(server_handlers.RequestIdKey, requestID), zap.String("spanID", spanId), zap.String("traceID", traceId)))
		next.ServeHTTP(w, r)
	})
}

func otelMiddleWare(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(server_handlers.RequestIdKey)
		pspan := oteltrace.SpanFromContext(r.Context())
		newCtx, span := otel.Tracer(server_handlers.ServerName).Start(r.Context(), "Initial", oteltrace.WithAttributes(attribute.String("requestID", requestID), attribute.String("traceID", pspan.SpanContext().TraceID().String()), attribute.String("spanID", pspan.SpanContext().SpanID().String())))
		defer span.End()
		r = r.WithContext(newCtx)
		next.ServeHTTP(w, r)
	})
}
