package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Load(ctx, "slot")
	assert.True(t, errors.Is(err, flow.ErrSlotEmpty))

	require.NoError(t, s.Save(ctx, "slot", []byte("one")))
	require.NoError(t, s.Save(ctx, "slot", []byte("two")))
	got, err := s.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, s.Delete(ctx, "slot"))
	require.NoError(t, s.Delete(ctx, "slot"))
	_, err = s.Load(ctx, "slot")
	assert.True(t, errors.Is(err, flow.ErrSlotEmpty))
}

func TestStore_Copies(t *testing.T) {
	ctx := context.Background()
	s := New()
	doc := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", doc))
	doc[0] = 'x'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _ := s.Load(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Save(ctx, "a", []byte("1")))

	_, err := s.Load(ctx, "b")
	assert.True(t, errors.Is(err, flow.ErrSlotEmpty))
}
