package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentActor(t *testing.T) {
	t.Run("falls back to anonymous", func(t *testing.T) {
		actor := CurrentActor(context.Background())

		assert.True(t, actor.Anonymous)
		assert.Equal(t, AnonymousActorID, actor.ID)
	})

	t.Run("returns the context actor", func(t *testing.T) {
		ctx := WithActor(context.Background(), Actor{ID: "u1", Name: "alice"})

		actor := CurrentActor(ctx)
		assert.Equal(t, "u1", actor.ID)
		assert.False(t, actor.Anonymous)
	})
}

func TestActorString(t *testing.T) {
	assert.Equal(t, "anonymous", AnonymousActor().String())
	assert.Equal(t, "actor:alice", Actor{ID: "u1", Name: "alice"}.String())
	assert.Equal(t, "actor:u1", Actor{ID: "u1"}.String())
}
