package server

import (
	"encoding/json"
	"net/http"

	"bounceball/game"
)

// tuningPatch 可热更新的字段；会话参数在下一局生效，房间参数立即生效
type tuningPatch struct {
	TimeLimit          *float64 `json:"timeLimit,omitempty"`
	MilestoneBonus     *float64 `json:"milestoneBonus,omitempty"`
	Gravity            *float64 `json:"gravity,omitempty"`
	MinLaunchSpeed     *float64 `json:"minLaunchSpeed,omitempty"`
	MaxLaunchSpeed     *float64 `json:"maxLaunchSpeed,omitempty"`
	MaxChargeTime      *float64 `json:"maxChargeTime,omitempty"`
	DoubleJumpVelocity *float64 `json:"doubleJumpVelocity,omitempty"`
	GenerationBuffer   *float64 `json:"generationBuffer,omitempty"`

	MaxInputsPerTick *int `json:"maxInputsPerTick,omitempty"`
	BroadcastEvery   *int `json:"broadcastEvery,omitempty"`
}

func (p tuningPatch) touchesTuning() bool {
	return p.TimeLimit != nil || p.MilestoneBonus != nil || p.Gravity != nil ||
		p.MinLaunchSpeed != nil || p.MaxLaunchSpeed != nil || p.MaxChargeTime != nil ||
		p.DoubleJumpVelocity != nil || p.GenerationBuffer != nil
}

func (p tuningPatch) apply(t game.Tuning) game.Tuning {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.TimeLimit, p.TimeLimit)
	set(&t.MilestoneBonus, p.MilestoneBonus)
	set(&t.Gravity, p.Gravity)
	set(&t.MinLaunchSpeed, p.MinLaunchSpeed)
	set(&t.MaxLaunchSpeed, p.MaxLaunchSpeed)
	set(&t.MaxChargeTime, p.MaxChargeTime)
	set(&t.DoubleJumpVelocity, p.DoubleJumpVelocity)
	set(&t.GenerationBuffer, p.GenerationBuffer)
	return t
}

func currentPatch(room *Room) tuningPatch {
	t := room.Tuning()
	inputs := int(room.maxInputsPerTick.Load())
	every := int(room.broadcastEvery.Load())
	return tuningPatch{
		TimeLimit:          &t.TimeLimit,
		MilestoneBonus:     &t.MilestoneBonus,
		Gravity:            &t.Gravity,
		MinLaunchSpeed:     &t.MinLaunchSpeed,
		MaxLaunchSpeed:     &t.MaxLaunchSpeed,
		MaxChargeTime:      &t.MaxChargeTime,
		DoubleJumpVelocity: &t.DoubleJumpVelocity,
		GenerationBuffer:   &t.GenerationBuffer,
		MaxInputsPerTick:   &inputs,
		BroadcastEvery:     &every,
	}
}

// HandleAdminConfig 提供房间配置的读取与更新（热更新基本规则）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := m.roomID(r)
	room, err := m.GetOrCreateRoom(roomID)
	if err != nil {
		http.Error(w, "room unavailable", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(currentPatch(room))
	case http.MethodPost:
		var body tuningPatch
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.MaxInputsPerTick != nil && *body.MaxInputsPerTick < 0 {
			http.Error(w, "maxInputsPerTick must be >= 0", http.StatusBadRequest)
			return
		}
		if body.BroadcastEvery != nil && *body.BroadcastEvery < 1 {
			http.Error(w, "broadcastEvery must be >= 1", http.StatusBadRequest)
			return
		}
		if body.touchesTuning() {
			if err := room.UpdateTuning(body.apply(room.Tuning())); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if body.MaxInputsPerTick != nil {
			room.maxInputsPerTick.Store(int64(*body.MaxInputsPerTick))
		}
		if body.BroadcastEvery != nil {
			room.broadcastEvery.Store(int64(*body.BroadcastEvery))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "appliesAt": "next reset"})
		t := room.Tuning()
		Log.Infof("config updated: room=%s timeLimit=%.0f gravity=%.0f launch=[%.0f,%.0f] maxInputsPerTick=%d broadcastEvery=%d",
			roomID, t.TimeLimit, t.Gravity, t.MinLaunchSpeed, t.MaxLaunchSpeed, room.maxInputsPerTick.Load(), room.broadcastEvery.Load())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := m.roomID(r)
	room, ok := m.Get(roomID)
	if !ok {
		http.Error(w, "no such room", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"clients": room.ClientCount(),
		"metrics": room.Metrics().Snapshot(),
		"game":    room.Stats(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
