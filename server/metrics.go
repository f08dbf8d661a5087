package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	InputsAccepted    int64 // 交给会话的命令数
	RateLimited       int64 // 因同帧限流被拒绝的输入数
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	SpectatorIgnored  int64 // 观战者发出的控制命令
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	DecodeErrors      int64 // 无法解析的入站消息
	Broadcasts        int64 // 状态广播次数
	ScoresSubmitted   int64 // 成功写入排行榜的成绩
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncRateLimited()       { atomic.AddInt64(&m.RateLimited, 1) }
func (m *RoomMetrics) IncOldSeqIgnored()     { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *RoomMetrics) IncSpectatorIgnored()  { atomic.AddInt64(&m.SpectatorIgnored, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncDecodeErrors()      { atomic.AddInt64(&m.DecodeErrors, 1) }
func (m *RoomMetrics) IncBroadcasts()        { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *RoomMetrics) IncScoresSubmitted()   { atomic.AddInt64(&m.ScoresSubmitted, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":        atomic.LoadInt64(&m.RateLimited),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"spectator_ignored":   atomic.LoadInt64(&m.SpectatorIgnored),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"decode_errors":       atomic.LoadInt64(&m.DecodeErrors),
		"broadcasts":          atomic.LoadInt64(&m.Broadcasts),
		"scores_submitted":    atomic.LoadInt64(&m.ScoresSubmitted),
		"avg_tick_ms":         avgMs,
	}
}
