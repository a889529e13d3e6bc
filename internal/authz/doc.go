// Package authz carries the per-request authorization state: the current
// actor and the scope stack that controls permission enforcement.
//
// Core concepts:
//
//   - Actor: the identity a request acts as. Resolved by middleware and
//     stored on the context. When no actor is resolvable, enforcement
//     substitutes the anonymous actor, never a nil identity.
//
//   - Scope stack: a stack of named scopes owned by one execution context.
//     Entering ScopeBypass suspends enforcement for everything nested under
//     it. Scope visibility follows call nesting, not explicit data flow,
//     so every operation must run on the context that entered the scope.
//
// Usage rules:
//
//  1. Prefer RunWithScope / Sudo closures over manual Enter/Exit pairs;
//     the closures guarantee the scope is exited on every path.
//  2. Never share a context across goroutines while a scope is active.
//  3. Enforcement handlers enter ScopeBypass for their own body; an outer
//     bypass is therefore detected with InAncestorScope, not InScope.
package authz
