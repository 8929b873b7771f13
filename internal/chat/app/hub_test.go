package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 測試基本註冊與查詢
func TestPresenceHub_RegisterResolve(t *testing.T) {
	hub := NewPresenceHub()

	_, ok := hub.Resolve("alice")
	assert.False(t, ok)

	hub.Register("alice", "conn-1")
	connID, ok := hub.Resolve("alice")
	assert.True(t, ok)
	assert.Equal(t, "conn-1", connID)

	hub.Unregister("alice", "conn-1")
	_, ok = hub.Resolve("alice")
	assert.False(t, ok)
}

// 測試同帳號重複連線以最後註冊者為準
func TestPresenceHub_LastWriteWins(t *testing.T) {
	hub := NewPresenceHub()

	hub.Register("alice", "conn-1")
	hub.Register("alice", "conn-2")

	connID, ok := hub.Resolve("alice")
	assert.True(t, ok)
	assert.Equal(t, "conn-2", connID)

	assert.Len(t, hub.OnlineUsers(), 1)
}

// 測試舊連線斷線不會蓋掉重連後的註冊
func TestPresenceHub_StaleUnregister(t *testing.T) {
	hub := NewPresenceHub()

	hub.Register("alice", "conn-1")
	// 重連先進來
	hub.Register("alice", "conn-2")
	// 舊連線的清理晚到
	hub.Unregister("alice", "conn-1")

	connID, ok := hub.Resolve("alice")
	assert.True(t, ok)
	assert.Equal(t, "conn-2", connID)
}

// 測試並發註冊/註銷不會 race
func TestPresenceHub_Concurrency(t *testing.T) {
	hub := NewPresenceHub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			connID := fmt.Sprintf("conn-%d", n)
			hub.Register(userID, connID)
			_, _ = hub.Resolve(userID)
			hub.Unregister(userID, connID)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, hub.OnlineUsers())
}
