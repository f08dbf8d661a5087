package server

import (
	"net/http"
	"sort"
	"sync"
)

// RoomManager 管理多个房间的生命周期；由 main 显式创建并注入处理器
type RoomManager struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	cfg         RoomConfig
	defaultRoom string
	codec       Codec // ?codec 缺省时使用
}

// NewRoomManager defaultRoom 为空时使用 "room-1"
func NewRoomManager(cfg RoomConfig, defaultRoom string) *RoomManager {
	if defaultRoom == "" {
		defaultRoom = "room-1"
	}
	return &RoomManager{
		rooms:       make(map[string]*Room),
		cfg:         cfg,
		defaultRoom: defaultRoom,
		codec:       JSONCodec,
	}
}

// SetDefaultCodec 按名字设置缺省编解码
func (m *RoomManager) SetDefaultCodec(name string) error {
	c, err := CodecByName(name)
	if err != nil {
		return err
	}
	m.codec = c
	return nil
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) (*Room, error) {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	r, err := NewRoom(id, m.cfg)
	if err != nil {
		return nil, err
	}
	m.rooms[id] = r
	r.StartTicker()
	Log.Infow("room created", "room", id)
	return r, nil
}

// Get 仅查找，不创建
func (m *RoomManager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomIDs 已创建房间（排序）
func (m *RoomManager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close 停止全部房间
func (m *RoomManager) Close() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()
	for _, r := range rooms {
		r.Stop()
	}
}

func (m *RoomManager) roomID(r *http.Request) string {
	if id := r.URL.Query().Get("room"); id != "" {
		return id
	}
	return m.defaultRoom
}
