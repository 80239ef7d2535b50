package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	subjectKey   contextKey = "subject"
	accessKey    contextKey = "access"
)

// accessInfo carries values set by inner middleware back out to the
// access log, which only sees the request it passed down.
type accessInfo struct {
	subject string
}

func withAccessInfo(ctx context.Context, info *accessInfo) context.Context {
	return context.WithValue(ctx, accessKey, info)
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when no request id was assigned.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func GetRequestID(r *http.Request) string {
	return RequestIDFromContext(r.Context())
}

func SetSubject(ctx context.Context, sub string) context.Context {
	if info, ok := ctx.Value(accessKey).(*accessInfo); ok {
		info.subject = sub
	}
	return context.WithValue(ctx, subjectKey, sub)
}

// GetSubject returns the authenticated token subject, if any.
func GetSubject(r *http.Request) string {
	v, _ := r.Context().Value(subjectKey).(string)
	return v
}
