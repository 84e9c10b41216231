package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// contextHandler дописывает request_id и user_id из ctx к каждой записи,
// так что slog.InfoContext(ctx, ...) из любого пакета их тоже получает
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := RequestID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if id := UserID(ctx); id != "" {
			r.AddAttrs(slog.String("user_id", id))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// FromContext - логгер, привязанный к ctx; поля запроса добавит contextHandler
func FromContext(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, l: GetLogger()}
}

// ContextLogger - уровни Info/Warn/Error с привязанным ctx
type ContextLogger struct {
	ctx context.Context
	l   *slog.Logger
}

func (c *ContextLogger) Info(msg string, args ...any)  { c.l.InfoContext(c.ctx, msg, args...) }
func (c *ContextLogger) Warn(msg string, args ...any)  { c.l.WarnContext(c.ctx, msg, args...) }
func (c *ContextLogger) Error(msg string, args ...any) { c.l.ErrorContext(c.ctx, msg, args...) }

func CtxDebug(ctx context.Context, msg string, args ...any) {
	GetLogger().DebugContext(ctx, msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	GetLogger().InfoContext(ctx, msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	GetLogger().WarnContext(ctx, msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	GetLogger().ErrorContext(ctx, msg, args...)
}

func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	GetLogger().ErrorContext(ctx, msg, append([]any{slog.Any("error", err)}, args...)...)
}
