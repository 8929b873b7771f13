package app

import (
	"sync"
)

// PresenceRegistry 行程內在線名單
// userID → connectionID，單一映射 (同帳號重複連線以最後註冊者為準)
// 介面化之後多節點部署可換成共享儲存的實作
type PresenceRegistry interface {
	Register(userID, connID string)
	Unregister(userID, connID string)
	// Resolve 回傳目前的 connection id，不在線回傳 false
	// 其他元件以此決定推送或等對方自行拉取
	Resolve(userID string) (string, bool)
	OnlineUsers() []string
}

type presenceHub struct {
	mu     sync.RWMutex
	online map[string]string
}

// NewPresenceHub create in-memory PresenceRegistry
func NewPresenceHub() PresenceRegistry {
	return &presenceHub{online: make(map[string]string)}
}

func (h *presenceHub) Register(userID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.online[userID] = connID
}

// Unregister 只在 connection id 吻合時移除
// 避免舊連線的斷線事件蓋掉重連後的新註冊
func (h *presenceHub) Unregister(userID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.online[userID]; ok && cur == connID {
		delete(h.online, userID)
	}
}

func (h *presenceHub) Resolve(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connID, ok := h.online[userID]
	return connID, ok
}

func (h *presenceHub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.online))
	for userID := range h.online {
		users = append(users, userID)
	}
	return users
}
