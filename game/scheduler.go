package game

// Task 节流的子更新
type Task uint8

const (
	TaskTimer Task = iota
	TaskScore
	TaskCleanup
	TaskFPS
	taskCount
)

// Scheduler 每 N 帧执行一次的节流策略
type Scheduler struct {
	every [taskCount]uint64
}

// NewScheduler 由 Cadence 构造；间隔 <=1 视为每帧
func NewScheduler(c Cadence) Scheduler {
	var s Scheduler
	for task, n := range map[Task]int{
		TaskTimer:   c.Timer,
		TaskScore:   c.Score,
		TaskCleanup: c.Cleanup,
		TaskFPS:     c.FPS,
	} {
		if n > 1 {
			s.every[task] = uint64(n)
		}
	}
	return s
}

// Due 本帧是否应执行 task
func (s Scheduler) Due(task Task, tick uint64) bool {
	if task >= taskCount {
		return false
	}
	n := s.every[task]
	return n <= 1 || tick%n == 0
}

// Interval 任务间隔（tick）
func (s Scheduler) Interval(task Task) uint64 {
	if task >= taskCount || s.every[task] == 0 {
		return 1
	}
	return s.every[task]
}

// FPSMeter 指数平滑的帧率估计
type FPSMeter struct {
	avg float64
}

// Observe 记录一帧的 dt（秒）
func (m *FPSMeter) Observe(dt float64) {
	if dt <= 0 {
		return
	}
	if m.avg == 0 {
		m.avg = dt
		return
	}
	m.avg += (dt - m.avg) * 0.1
}

// FPS 四舍五入的帧率
func (m *FPSMeter) FPS() int {
	if m.avg <= 0 {
		return 0
	}
	return int(1/m.avg + 0.5)
}

// Reset 清零
func (m *FPSMeter) Reset() { m.avg = 0 }
