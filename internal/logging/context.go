package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

const RequestIDField = "request_id"

type entryCtxKey struct{}

// NewContext stores a request scoped entry in ctx.
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, entryCtxKey{}, entry)
}

// FromContext returns the entry stored by NewContext, or one bound to the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(entryCtxKey{}).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func RequestID(ctx context.Context) string {
	id, _ := FromContext(ctx).Data[RequestIDField].(string)
	return id
}
