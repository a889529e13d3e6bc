package authz

import (
	"context"
	"time"

	"github.com/looplj/modelguard/internal/log"
)

// BypassAuditRecord represents a bypass audit record.
type BypassAuditRecord struct {
	Timestamp time.Time
	Actor     string
	Reason    string
	Scopes    []string
}

// auditLogger is the bypass audit logger. Can be customized via SetAuditLogger.
var auditLogger func(ctx context.Context, record BypassAuditRecord)

// SetAuditLogger sets a custom audit logger for bypass operations.
// If not set, the default structured log output is used.
func SetAuditLogger(fn func(ctx context.Context, record BypassAuditRecord)) {
	auditLogger = fn
}

func recordBypassAudit(ctx context.Context, reason string) {
	record := BypassAuditRecord{
		Timestamp: time.Now(),
		Actor:     CurrentActor(ctx).String(),
		Reason:    reason,
	}

	if s, ok := Scopes(ctx); ok {
		record.Scopes = s.Active()
	}

	if auditLogger != nil {
		auditLogger(ctx, record)
		return
	}

	log.Debug(ctx, "authz: enforcement bypass",
		log.String("actor", record.Actor),
		log.String("reason", record.Reason),
		log.Strings("scopes", record.Scopes),
	)
}

// Sudo executes fn with enforcement bypassed. The bypass scope is confined to
// the closure; it is exited on every exit path.
// reason must be a stable audit identifier (e.g. "grant-management", "seed-data").
//
// Example usage:
//
//	people, err := authz.Sudo(ctx, "fixture-setup", func(ctx context.Context) ([]storage.Entity, error) {
//	    return store.Materialize(ctx, storage.All("person"))
//	})
func Sudo[T any](ctx context.Context, reason string, fn func(ctx context.Context) (T, error)) (T, error) {
	recordBypassAudit(ctx, reason)

	return RunWithScope(ctx, ScopeBypass, fn)
}

// SudoScoped is Sudo for functions with no result.
func SudoScoped(ctx context.Context, reason string, fn func(ctx context.Context) error) error {
	_, err := Sudo(ctx, reason, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}

// IsBypassActive reports whether the context is anywhere inside the bypass scope.
func IsBypassActive(ctx context.Context) bool {
	return InScope(ctx, ScopeBypass)
}
