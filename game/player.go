package game

import "math"

// PlayerMode 控制器状态；Charging 只能从 Grounded 进入
type PlayerMode uint8

const (
	ModeGrounded PlayerMode = iota
	ModeAirborne
	ModeCharging
)

func (m PlayerMode) String() string {
	switch m {
	case ModeGrounded:
		return "grounded"
	case ModeAirborne:
		return "airborne"
	case ModeCharging:
		return "charging"
	default:
		return "unknown"
	}
}

// chargeSource 蓄力由哪个输入触发；只有同源的释放才会发射
type chargeSource uint8

const (
	sourceNone chargeSource = iota
	sourceJump
	sourceButton
	sourceSwipe
)

// 方向输入阈值
const stickThreshold = 0.5

// PlayerEvents 单帧内发生的离散事件，供装饰效果使用
type PlayerEvents struct {
	Launched     bool
	LaunchSpeed  float64
	DoubleJumped bool
	Landed       bool
}

// ChargeVisual 蓄力指示（箭头 + 双层脉冲环）的可观察量
type ChargeVisual struct {
	Level       float64 `json:"level"`
	Aim         float64 `json:"aim"`
	ArrowLength float64 `json:"arrowLength"`
	HeadLength  float64 `json:"headLength"`
	PulseRadius float64 `json:"pulseRadius"`
	PulseAlpha  float64 `json:"pulseAlpha"`
}

// LaunchSpeed 发射速度：min + (max-min) * level^1.5，level 钳制到 [0,1]
func (t Tuning) LaunchSpeed(level float64) float64 {
	level = clamp(level, 0, 1)
	return t.MinLaunchSpeed + (t.MaxLaunchSpeed-t.MinLaunchSpeed)*math.Pow(level, 1.5)
}

// Player 玩家控制器：移动、蓄力发射、二段跳
type Player struct {
	t     Tuning
	world *World

	Body     Body
	Rotation float64

	direction     Command
	jumpHeld      bool
	jumpLatch     bool // 本次腾空前/期间跳跃键已被使用
	buttonHeld    bool
	swipeCharging bool

	charging    bool
	source      chargeSource
	chargeStart float64
	originX     float64
	originY     float64
	chargeLevel float64
	aim         float64
	pulse       float64

	canDoubleJump bool
	events        PlayerEvents
	contacts      []Collider
}

// NewPlayer 在出生点创建玩家并注册刚体
func NewPlayer(t Tuning, world *World) *Player {
	p := &Player{t: t, world: world}
	p.Body.Radius = t.PlayerRadius
	world.AddBody(&p.Body)
	p.Reset()
	return p
}

// Reset 回到出生点，速度清零，全部控制状态复位
func (p *Player) Reset() {
	p.Body.VX, p.Body.VY, p.Body.AX = 0, 0, 0
	p.Body.Grounded = false
	p.world.Teleport(&p.Body, p.t.SpawnX, p.t.SpawnY)
	p.Rotation = 0
	p.direction = Command{Kind: CmdDirection}
	p.jumpHeld = false
	p.jumpLatch = false
	p.buttonHeld = false
	p.swipeCharging = false
	p.clearCharge()
	p.aim = p.t.InitialAim
	p.pulse = 0
	p.canDoubleJump = false
	p.events = PlayerEvents{}
	p.contacts = nil
}

// Mode 当前状态
func (p *Player) Mode() PlayerMode {
	switch {
	case p.charging:
		return ModeCharging
	case p.Body.Grounded:
		return ModeGrounded
	default:
		return ModeAirborne
	}
}

// Charging 是否正在蓄力
func (p *Player) Charging() bool { return p.charging }

// ChargeLevel 蓄力进度 [0,1]，未蓄力时为 0
func (p *Player) ChargeLevel() float64 {
	if !p.charging {
		return 0
	}
	return p.chargeLevel
}

// Aim 当前瞄准角（弧度，[-π, π]）
func (p *Player) Aim() float64 { return p.aim }

// CanDoubleJump 二段跳是否可用
func (p *Player) CanDoubleJump() bool { return p.canDoubleJump }

// ChargeVisual 蓄力指示参数；未蓄力时返回零值
func (p *Player) ChargeVisual() ChargeVisual {
	if !p.charging {
		return ChargeVisual{}
	}
	lv := p.chargeLevel
	return ChargeVisual{
		Level:       lv,
		Aim:         p.aim,
		ArrowLength: 40 + lv*60,
		HeadLength:  10 + lv*10,
		PulseRadius: 20 + lv*20 + math.Sin(p.pulse)*5,
		PulseAlpha:  0.7 - lv*0.3,
	}
}

// apply 消费一条控制命令；now 为模拟时钟（秒）
func (p *Player) apply(cmd Command, now float64) {
	switch cmd.Kind {
	case CmdDirection:
		p.setDirection(cmd, now)
	case CmdJumpPress:
		p.jumpHeld = true
	case CmdJumpRelease:
		p.jumpHeld = false
	case CmdChargePress:
		if p.Body.Grounded && !p.charging {
			p.buttonHeld = true
			p.startCharge(sourceButton, now)
		}
	case CmdChargeRelease:
		p.buttonHeld = false
		if p.charging && p.source == sourceButton {
			p.launch(now)
		}
	case CmdDoubleJumpPress:
		if !p.Body.Grounded && p.canDoubleJump {
			p.doubleJump()
		}
	case CmdDoubleJumpRelease:
		// 松开无动作
	}
}

// track 非 Playing 状态下只同步按键的保持状态：松开与方向生效，
// 不开始蓄力、不发射、不二段跳；发射留到恢复后的第一帧
func (p *Player) track(cmd Command) {
	switch cmd.Kind {
	case CmdDirection:
		p.direction = cmd
		if cmd.Y > stickThreshold {
			p.swipeCharging = false
		}
	case CmdJumpRelease:
		p.jumpHeld = false
	case CmdChargeRelease:
		p.buttonHeld = false
	}
}

// setDirection 方向输入；上滑开始蓄力，下滑释放
func (p *Player) setDirection(cmd Command, now float64) {
	p.direction = cmd
	if cmd.Y < -stickThreshold && !p.swipeCharging && !p.charging && p.Body.Grounded {
		p.swipeCharging = true
		p.startCharge(sourceSwipe, now)
	}
	if cmd.Y > stickThreshold && p.swipeCharging {
		p.swipeCharging = false
		if p.charging && p.source == sourceSwipe {
			p.launch(now)
		}
	}
}

func (p *Player) startCharge(src chargeSource, now float64) {
	p.charging = true
	p.source = src
	p.chargeStart = now
	p.chargeLevel = 0
	p.originX, p.originY = p.Body.X, p.Body.Y
	p.Body.VX, p.Body.VY, p.Body.AX = 0, 0, 0
}

func (p *Player) clearCharge() {
	p.charging = false
	p.source = sourceNone
	p.chargeStart = 0
	p.chargeLevel = 0
}

func (p *Player) levelAt(now float64) float64 {
	return clamp((now-p.chargeStart)/p.t.MaxChargeTime, 0, 1)
}

// launch 按当前瞄准角发射
func (p *Player) launch(now float64) {
	speed := p.t.LaunchSpeed(p.levelAt(now))
	p.Body.VX = math.Cos(p.aim) * speed
	p.Body.VY = math.Sin(p.aim) * speed
	p.Body.AX = 0
	if p.source == sourceSwipe {
		p.swipeCharging = false
	}
	p.clearCharge()
	p.events.Launched = true
	p.events.LaunchSpeed = speed
}

func (p *Player) doubleJump() {
	p.canDoubleJump = false
	p.Body.VY = p.t.DoubleJumpVelocity
	p.events.DoubleJumped = true
}

// adjustAim 左增右减，越过 ±π 回绕
func (p *Player) adjustAim(left, right bool) {
	switch {
	case left:
		p.aim += p.t.AimAdjustRate
		if p.aim > math.Pi {
			p.aim = -math.Pi
		}
	case right:
		p.aim -= p.t.AimAdjustRate
		if p.aim < -math.Pi {
			p.aim = math.Pi
		}
	}
}

// Update 推进一帧，返回本帧事件
func (p *Player) Update(now, dt float64) PlayerEvents {
	p.events = PlayerEvents{}
	p.contacts = p.contacts[:0]
	t := p.t
	if p.charging {
		// 蓄力时不积分，需单独确认脚下仍有平台
		p.Body.Grounded = p.world.Supported(&p.Body)
	}
	grounded := p.Body.Grounded
	p.pulse += t.PulseStep

	if grounded {
		p.canDoubleJump = true
		p.jumpLatch = false
	}

	left := p.direction.X < -stickThreshold
	right := p.direction.X > stickThreshold

	// 统一跳跃键：地面蓄力，空中二段跳，松开发射
	switch {
	case p.jumpHeld && grounded && !p.charging:
		p.startCharge(sourceJump, now)
		p.jumpLatch = true
	case p.jumpHeld && !grounded && !p.jumpLatch && p.canDoubleJump:
		p.doubleJump()
		p.jumpLatch = true
	case !p.jumpHeld:
		p.jumpLatch = false
		if p.charging && p.source == sourceJump {
			p.launch(now)
		}
	}

	// 蓄力键在暂停期间已松开
	if p.charging && (p.source == sourceButton && !p.buttonHeld || p.source == sourceSwipe && !p.swipeCharging) {
		p.launch(now)
	}

	if p.charging && !grounded {
		// 脚下失去支撑：强制释放
		p.launch(now)
	}

	if p.charging {
		p.adjustAim(left, right)
		p.chargeLevel = p.levelAt(now)
		p.Body.VX, p.Body.VY, p.Body.AX = 0, 0, 0
		p.world.Teleport(&p.Body, p.originX, p.originY)
		return p.events
	}

	accel := t.MoveAccel
	if !grounded {
		accel *= t.AirAccelFactor
	}
	spin := t.RotationSpeed * math.Abs(p.Body.VX) / t.MaxVelocityX
	switch {
	case left:
		p.Body.AX = -accel
		p.Rotation -= spin
	case right:
		p.Body.AX = accel
		p.Rotation += spin
	default:
		p.Body.AX = 0
		if grounded {
			p.Rotation *= t.GroundSpin
		} else {
			p.Rotation *= t.AirSpin
		}
	}

	p.contacts = append(p.contacts, p.world.Step(&p.Body, dt)...)
	if !grounded && p.Body.Grounded {
		p.land()
	}
	return p.events
}

// land 落地：恢复二段跳，清除残留蓄力标志
func (p *Player) land() {
	p.canDoubleJump = true
	p.swipeCharging = false
	p.events.Landed = true
}
