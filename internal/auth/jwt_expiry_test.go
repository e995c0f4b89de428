package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredTokenRejected(t *testing.T) {
	manager, err := NewManager("test-secret")
	require.NoError(t, err)

	// Токен с уже истёкшим сроком: подпись верна, но exp в прошлом
	expired, err := manager.issue(21, tokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = manager.ParseAccess(expired)
	assert.Error(t, err, "истёкший access-токен должен отклоняться")
}

func TestExpiredRefreshRejected(t *testing.T) {
	manager, err := NewManager("test-secret")
	require.NoError(t, err)

	expired, err := manager.issue(21, tokenTypeRefresh, -time.Minute)
	require.NoError(t, err)

	_, err = manager.ParseRefresh(expired)
	assert.Error(t, err)

	_, err = manager.RefreshAccess(expired)
	assert.Error(t, err, "истёкший refresh-токен не должен обмениваться на access")
}
