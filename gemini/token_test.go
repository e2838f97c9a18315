package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("")
	require.NoError(t, err)

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Hello, world!")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("blank text returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), " \n\t")

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("longer text returns more tokens", func(t *testing.T) {
		t.Parallel()

		short, err := tc.CountTokens(context.Background(), "About")
		require.NoError(t, err)
		long, err := tc.CountTokens(context.Background(), "About us: we build tools that crawl documentation sites and keep vector stores fresh.")
		require.NoError(t, err)

		assert.Greater(t, long, short)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tc.CountTokens(ctx, "Hello")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewTokenCounter_rejects_unknown_models(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("not-a-model")

	require.Error(t, err)
	assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
}
