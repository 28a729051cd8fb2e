package service

import (
	"context"
	"testing"

	"mygrid/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSessionMap(t *testing.T) {
	ctx := context.Background()
	m := NewLocalSessionMap()
	s := domain.Session{ID: "s-1", NodeID: nodeA, CallerDialect: domain.DialectW3C, NodeDialect: domain.DialectOSS}

	require.NoError(t, m.Add(ctx, s))
	got, err := m.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, m.Remove(ctx, "s-1"))
	_, err = m.Get(ctx, "s-1")
	require.ErrorIs(t, err, ErrUnknownSession)
	assert.True(t, IsInvalidSessionIDError(err))

	assert.NoError(t, m.Remove(ctx, "s-1"), "removing twice is fine")
}
