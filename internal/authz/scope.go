package authz

import (
	"context"
	"slices"
)

// ScopeBypass is the scope name that disables permission enforcement
// for everything nested under it.
const ScopeBypass = "guard-ignore"

// ScopeStack is an ordered stack of named scopes. One instance belongs to
// exactly one execution context; it is created lazily on first use and must
// never be shared across goroutines.
type ScopeStack struct {
	scopes []string
}

// Enter pushes a scope name. It always succeeds.
func (s *ScopeStack) Enter(name string) {
	s.scopes = append(s.scopes, name)
}

// Exit pops the most recently entered scope. Callers must pair Exit with a
// matching Enter; prefer RunWithScope which guarantees the pairing.
func (s *ScopeStack) Exit() {
	if len(s.scopes) == 0 {
		return
	}

	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Current returns the most recently entered scope, or "" if none is active.
func (s *ScopeStack) Current() string {
	if len(s.scopes) == 0 {
		return ""
	}

	return s.scopes[len(s.scopes)-1]
}

// Active returns a copy of all active scopes, outermost first.
func (s *ScopeStack) Active() []string {
	return slices.Clone(s.scopes)
}

// InScope reports whether name appears anywhere in the stack.
func (s *ScopeStack) InScope(name string) bool {
	return slices.Contains(s.scopes, name)
}

// InAncestorScope reports whether name appears in the stack excluding the
// topmost entry. A handler that has entered its own transient scope uses
// this to detect a caller's scope without being masked by its own.
func (s *ScopeStack) InAncestorScope(name string) bool {
	if len(s.scopes) == 0 {
		return false
	}

	return slices.Contains(s.scopes[:len(s.scopes)-1], name)
}

// scopesKey is an unexported key type to prevent external forgery.
type scopesKey struct{}

// WithScopes attaches a fresh scope stack to the context. Request middleware
// installs one per request; background tasks get one lazily via RunWithScope.
func WithScopes(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopesKey{}, &ScopeStack{})
}

// Scopes returns the scope stack owned by the context, if any.
func Scopes(ctx context.Context) (*ScopeStack, bool) {
	s, ok := ctx.Value(scopesKey{}).(*ScopeStack)
	return s, ok
}

// CurrentScope returns the innermost active scope on the context, or "".
func CurrentScope(ctx context.Context) string {
	s, ok := Scopes(ctx)
	if !ok {
		return ""
	}

	return s.Current()
}

// InScope reports whether the context is inside the named scope.
func InScope(ctx context.Context, name string) bool {
	s, ok := Scopes(ctx)
	if !ok {
		return false
	}

	return s.InScope(name)
}

// InAncestorScope reports whether any scope other than the innermost one
// matches name.
func InAncestorScope(ctx context.Context, name string) bool {
	s, ok := Scopes(ctx)
	if !ok {
		return false
	}

	return s.InAncestorScope(name)
}

// RunWithScope executes fn inside the named scope. The scope is exited on
// every exit path, including panics, so a cancelled or failed operation
// cannot leak its scope into subsequent work on the same context.
func RunWithScope[T any](ctx context.Context, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	s, ok := Scopes(ctx)
	if !ok {
		s = &ScopeStack{}
		ctx = context.WithValue(ctx, scopesKey{}, s)
	}

	s.Enter(name)
	defer s.Exit()

	return fn(ctx)
}

// RunScoped is RunWithScope for functions with no result.
func RunScoped(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := RunWithScope(ctx, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}
