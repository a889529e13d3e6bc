package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSudo(t *testing.T) {
	t.Run("bypass is active inside the closure only", func(t *testing.T) {
		ctx := WithScopes(context.Background())

		require.False(t, IsBypassActive(ctx))

		result, err := Sudo(ctx, "test", func(ctx context.Context) (string, error) {
			assert.True(t, IsBypassActive(ctx))
			return "done", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "done", result)

		assert.False(t, IsBypassActive(ctx))
	})

	t.Run("nested sudo keeps the outer bypass", func(t *testing.T) {
		ctx := WithScopes(context.Background())

		err := SudoScoped(ctx, "outer", func(ctx context.Context) error {
			return SudoScoped(ctx, "inner", func(ctx context.Context) error {
				assert.True(t, IsBypassActive(ctx))
				assert.True(t, InAncestorScope(ctx, ScopeBypass))

				return nil
			})
		})
		require.NoError(t, err)

		assert.False(t, IsBypassActive(ctx))
	})

	t.Run("audit logger receives the record", func(t *testing.T) {
		var got []BypassAuditRecord

		SetAuditLogger(func(ctx context.Context, record BypassAuditRecord) {
			got = append(got, record)
		})
		defer SetAuditLogger(nil)

		ctx := WithActor(WithScopes(context.Background()), Actor{ID: "u1", Name: "alice"})

		err := SudoScoped(ctx, "seed-data", func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)

		require.Len(t, got, 1)
		assert.Equal(t, "seed-data", got[0].Reason)
		assert.Equal(t, "actor:alice", got[0].Actor)
		assert.False(t, got[0].Timestamp.IsZero())
	})
}
