package authz

import (
	"context"
	"fmt"
)

// AnonymousActorID identifies the well-defined anonymous identity used when
// no actor is resolvable from the context.
const AnonymousActorID = "anonymous"

// Actor represents the identity a request acts as.
type Actor struct {
	ID        string
	Name      string
	Anonymous bool

	// Superuser actors pass every check in the bundled permission store.
	// External oracles are free to ignore the flag.
	Superuser bool
}

// String returns a stable representation of the actor (for audit logs).
func (a Actor) String() string {
	if a.Anonymous {
		return AnonymousActorID
	}

	if a.Name != "" {
		return fmt.Sprintf("actor:%s", a.Name)
	}

	return fmt.Sprintf("actor:%s", a.ID)
}

// AnonymousActor returns the anonymous identity.
func AnonymousActor() Actor {
	return Actor{ID: AnonymousActorID, Anonymous: true}
}

// actorKey is an unexported key type to prevent external forgery.
type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor reads the actor from the context.
func GetActor(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// CurrentActor returns the context's actor, substituting the anonymous
// identity when none is set. It never returns a zero Actor.
func CurrentActor(ctx context.Context) Actor {
	if a, ok := GetActor(ctx); ok {
		return a
	}

	return AnonymousActor()
}
