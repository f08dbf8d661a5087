package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning 参数校验失败时返回（包装具体字段信息）
var ErrInvalidTuning = errors.New("invalid tuning")

// Cadence 各子更新的节流间隔（单位：tick），<=1 表示每帧执行
type Cadence struct {
	Timer   int `json:"timer"`
	Score   int `json:"score"`
	Cleanup int `json:"cleanup"`
	FPS     int `json:"fps"`
}

// Tuning 模拟使用的全部数值。世界坐标 y 轴向下，越往上越负。
type Tuning struct {
	WorldWidth    float64 `json:"worldWidth"`
	WorldHeight   float64 `json:"worldHeight"` // 可攀爬的最大高度（世界单位）
	UnitsPerMeter float64 `json:"unitsPerMeter"`

	SpawnX       float64 `json:"spawnX"`
	SpawnY       float64 `json:"spawnY"`
	PlayerRadius float64 `json:"playerRadius"`

	GroundX      float64 `json:"groundX"`
	GroundY      float64 `json:"groundY"`
	GroundWidth  float64 `json:"groundWidth"`
	GroundHeight float64 `json:"groundHeight"`

	// 生成器
	InitialFrontierY     float64 `json:"initialFrontierY"`
	GenerationBuffer     float64 `json:"generationBuffer"`
	PlatformBaseWidth    float64 `json:"platformBaseWidth"`
	PlatformMinWidth     float64 `json:"platformMinWidth"`
	PlatformHeight       float64 `json:"platformHeight"`
	PlatformShrinkMeters float64 `json:"platformShrinkMeters"`
	MaxRowPlatforms      int     `json:"maxRowPlatforms"`
	RowReductionMeters   float64 `json:"rowReductionMeters"`
	SideMargin           float64 `json:"sideMargin"`
	HighMarginBonus      float64 `json:"highMarginBonus"`
	HighMarginMeters     float64 `json:"highMarginMeters"`
	BaseRowGap           float64 `json:"baseRowGap"`
	GapDivisorMeters     float64 `json:"gapDivisorMeters"`
	OrbSpawnBaseChance   float64 `json:"orbSpawnBaseChance"`
	OrbFadeMeters        float64 `json:"orbFadeMeters"`
	OrbOffsetY           float64 `json:"orbOffsetY"`
	OrbRadius            float64 `json:"orbRadius"`

	// 对象池与清理
	PoolPrewarm      int     `json:"poolPrewarm"`
	CleanupThreshold float64 `json:"cleanupThreshold"`

	// 计时与里程碑
	TimeLimit       float64 `json:"timeLimit"` // 秒
	MilestoneMeters int     `json:"milestoneMeters"`
	MilestoneBonus  float64 `json:"milestoneBonus"` // 秒
	FallThresholdY  float64 `json:"fallThresholdY"`

	// 物理（单位/秒）
	Gravity        float64 `json:"gravity"`
	MaxVelocityX   float64 `json:"maxVelocityX"`
	MaxVelocityY   float64 `json:"maxVelocityY"`
	Drag           float64 `json:"drag"`
	Bounce         float64 `json:"bounce"`
	MoveAccel      float64 `json:"moveAccel"`
	AirAccelFactor float64 `json:"airAccelFactor"`
	MaxStep        float64 `json:"maxStep"` // 单步最大 dt（秒）

	// 旋转视觉（每 tick）
	RotationSpeed float64 `json:"rotationSpeed"`
	GroundSpin    float64 `json:"groundSpin"`
	AirSpin       float64 `json:"airSpin"`

	// 蓄力跳 / 二段跳
	MaxChargeTime      float64 `json:"maxChargeTime"` // 秒
	MinLaunchSpeed     float64 `json:"minLaunchSpeed"`
	MaxLaunchSpeed     float64 `json:"maxLaunchSpeed"`
	AimAdjustRate      float64 `json:"aimAdjustRate"` // 弧度/tick
	InitialAim         float64 `json:"initialAim"`
	DoubleJumpVelocity float64 `json:"doubleJumpVelocity"`
	PulseStep          float64 `json:"pulseStep"`

	TickRate int     `json:"tickRate"`
	Cadence  Cadence `json:"cadence"`
}

// DefaultTuning 默认参数
func DefaultTuning() Tuning {
	return Tuning{
		WorldWidth:    800,
		WorldHeight:   1000000,
		UnitsPerMeter: 100,

		SpawnX:       400,
		SpawnY:       500,
		PlayerRadius: 16,

		GroundX:      0,
		GroundY:      560,
		GroundWidth:  800,
		GroundHeight: 40,

		InitialFrontierY:     400,
		GenerationBuffer:     2000,
		PlatformBaseWidth:    120,
		PlatformMinWidth:     80,
		PlatformHeight:       20,
		PlatformShrinkMeters: 300,
		MaxRowPlatforms:      3,
		RowReductionMeters:   200,
		SideMargin:           50,
		HighMarginBonus:      50,
		HighMarginMeters:     200,
		BaseRowGap:           150,
		GapDivisorMeters:     40,
		OrbSpawnBaseChance:   0.30,
		OrbFadeMeters:        1000,
		OrbOffsetY:           60,
		OrbRadius:            8,

		PoolPrewarm:      50,
		CleanupThreshold: 2000,

		TimeLimit:       120,
		MilestoneMeters: 10,
		MilestoneBonus:  5,
		FallThresholdY:  800,

		Gravity:        1100,
		MaxVelocityX:   400,
		MaxVelocityY:   1000,
		Drag:           50,
		Bounce:         0.2,
		MoveAccel:      300,
		AirAccelFactor: 0.5,
		MaxStep:        0.05,

		RotationSpeed: 0.1,
		GroundSpin:    0.9,
		AirSpin:       0.98,

		MaxChargeTime:      1,
		MinLaunchSpeed:     600,
		MaxLaunchSpeed:     1200,
		AimAdjustRate:      0.03,
		InitialAim:         -math.Pi / 4,
		DoubleJumpVelocity: -500,
		PulseStep:          0.1,

		TickRate: 60,
		Cadence: Cadence{
			Timer:   30,
			Score:   10,
			Cleanup: 60,
			FPS:     30,
		},
	}
}

// Validate 检查会导致模拟失效的参数；可钳制的退化值（如平台宽度）不在此报错
func (t Tuning) Validate() error {
	switch {
	case t.WorldWidth <= 0 || t.WorldHeight <= 0:
		return fmt.Errorf("%w: world size must be positive", ErrInvalidTuning)
	case t.UnitsPerMeter <= 0:
		return fmt.Errorf("%w: unitsPerMeter must be positive", ErrInvalidTuning)
	case t.PlayerRadius <= 0:
		return fmt.Errorf("%w: playerRadius must be positive", ErrInvalidTuning)
	case t.BaseRowGap <= 0 || t.GapDivisorMeters <= 0:
		return fmt.Errorf("%w: row gap must be positive", ErrInvalidTuning)
	case t.GenerationBuffer <= 0 || t.CleanupThreshold <= 0:
		return fmt.Errorf("%w: buffer and cleanup threshold must be positive", ErrInvalidTuning)
	case t.MaxRowPlatforms < 1:
		return fmt.Errorf("%w: maxRowPlatforms must be >= 1, got %d", ErrInvalidTuning, t.MaxRowPlatforms)
	case t.TimeLimit <= 0:
		return fmt.Errorf("%w: timeLimit must be positive", ErrInvalidTuning)
	case t.MilestoneMeters < 1:
		return fmt.Errorf("%w: milestoneMeters must be >= 1, got %d", ErrInvalidTuning, t.MilestoneMeters)
	case t.MaxChargeTime <= 0:
		return fmt.Errorf("%w: maxChargeTime must be positive", ErrInvalidTuning)
	case t.MaxLaunchSpeed < t.MinLaunchSpeed:
		return fmt.Errorf("%w: maxLaunchSpeed below minLaunchSpeed", ErrInvalidTuning)
	case t.TickRate < 1:
		return fmt.Errorf("%w: tickRate must be >= 1, got %d", ErrInvalidTuning, t.TickRate)
	case t.OrbSpawnBaseChance < 0 || t.OrbSpawnBaseChance > 1:
		return fmt.Errorf("%w: orbSpawnBaseChance out of [0,1]", ErrInvalidTuning)
	}
	return nil
}

// TickDuration 名义帧长（秒）
func (t Tuning) TickDuration() float64 {
	return 1 / float64(t.TickRate)
}
