package server

import "time"

// StartTicker 启动房间的 Tick 循环（单线程推进世界）
func (r *Room) StartTicker() {
	r.startOnce.Do(func() {
		r.started.Store(true)
		go r.run()
	})
}

func (r *Room) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-r.quit:
			r.closeClients()
			r.log.Infow("room stopped", "ticks", r.tickSeq.Load())
			return
		case now := <-ticker.C:
			// 核心循环：处理输入 → 更新世界 → 广播结果；dt 取实际间隔，会话内部限幅
			r.Step(now.Sub(last))
			last = now
		}
	}
}

// Stop 停止 Tick 循环并关闭全部连接；可重复调用
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	if r.started.Load() {
		<-r.done
	}
}
