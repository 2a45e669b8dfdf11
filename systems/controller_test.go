package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/strata/components"
)

// flatProbe is level ground of a fixed height inside a square of half-size
// extent centred on the origin.
type flatProbe struct {
	height float64
	extent float64
}

func (p flatProbe) Sample(x, z float64) (float64, bool) {
	if math.Abs(x) > p.extent || math.Abs(z) > p.extent {
		return 0, false
	}
	return p.height, true
}

func testMovement() MovementParams {
	return MovementParams{
		MoveSpeed:      6,
		Accel:          0.12,
		Friction:       0.08,
		Gravity:        18,
		JumpSpeed:      24,
		SnapTolerance:  0.05,
		IntentDeadzone: 0.01,
	}
}

func testBody() components.Body {
	return components.Body{Radius: 0.3, Height: 1.8, EyeHeight: 1.7}
}

// ---------- Shared helpers ----------

func TestBlendFactor(t *testing.T) {
	tests := []struct {
		dt, tau, want float64
	}{
		{0.01, 0.1, 0.1},
		{0.5, 0.1, 1},
		{0.01, 0, 1},
		{0.01, -1, 1},
	}
	for _, tt := range tests {
		if got := blendFactor(tt.dt, tt.tau); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("blendFactor(%v, %v) = %v, want %v", tt.dt, tt.tau, got, tt.want)
		}
	}
}

func TestWishVelocity_YawConvention(t *testing.T) {
	m := testMovement()
	tests := []struct {
		name   string
		intent components.Intent
		yaw    float64
		vx, vz float64
	}{
		{"forward at yaw 0 looks -z", components.Intent{Forward: true}, 0, 0, -6},
		{"right at yaw 0 is +x", components.Intent{Right: true}, 0, 6, 0},
		{"back at yaw 0 is +z", components.Intent{Back: true}, 0, 0, 6},
		{"forward at yaw pi/2 is +x", components.Intent{Forward: true}, math.Pi / 2, 6, 0},
		{"opposing keys cancel", components.Intent{Forward: true, Back: true}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vx, vz, _ := m.WishVelocity(tt.intent, tt.yaw)
			if math.Abs(vx-tt.vx) > 1e-9 || math.Abs(vz-tt.vz) > 1e-9 {
				t.Errorf("got (%v, %v), want (%v, %v)", vx, vz, tt.vx, tt.vz)
			}
		})
	}

	// Diagonal input is not faster than straight input.
	vx, vz, _ := m.WishVelocity(components.Intent{Forward: true, Right: true}, 0.7)
	if s := math.Hypot(vx, vz); math.Abs(s-6) > 1e-9 {
		t.Errorf("diagonal speed = %v, want 6", s)
	}
}

// ---------- Height field controller ----------

func TestHeightfieldController_GroundingConvergence(t *testing.T) {
	c := NewHeightfieldController(flatProbe{height: 0, extent: 50}, testMovement())
	body := testBody()
	pos := components.Position{Y: 100}
	var vel components.Velocity

	for i := 0; i < 600; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 1.0/60)
	}

	if !body.Grounded {
		t.Fatal("player never grounded")
	}
	if math.Abs(pos.Y-body.EyeHeight) > testMovement().SnapTolerance {
		t.Errorf("y = %v, want %v within snap tolerance", pos.Y, body.EyeHeight)
	}
	if vel.Y != 0 {
		t.Errorf("vy = %v, want 0 on the ground", vel.Y)
	}
}

func TestHeightfieldController_StaysGrounded(t *testing.T) {
	c := NewHeightfieldController(flatProbe{height: 2, extent: 50}, testMovement())
	body := testBody()
	pos := components.Position{Y: 2 + body.EyeHeight}
	var vel components.Velocity

	for i := 0; i < 120; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 1.0/60)
		if !body.Grounded || pos.Y != 2+body.EyeHeight {
			t.Fatalf("tick %d: grounded=%v y=%v", i, body.Grounded, pos.Y)
		}
	}
}

func TestHeightfieldController_AcceleratesTowardTarget(t *testing.T) {
	c := NewHeightfieldController(flatProbe{extent: 1000}, testMovement())
	body := testBody()
	pos := components.Position{Y: body.EyeHeight}
	var vel components.Velocity
	fwd := components.Intent{Forward: true}

	c.Step(&pos, &vel, &body, components.Orientation{}, fwd, 1.0/60)
	// k = (1/60)/0.12
	if want := -6 * (1.0 / 60) / 0.12; math.Abs(vel.Z-want) > 1e-12 {
		t.Errorf("first tick vz = %v, want %v", vel.Z, want)
	}

	for i := 0; i < 120; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, fwd, 1.0/60)
	}
	if math.Abs(vel.Z+6) > 1e-3 || math.Abs(vel.X) > 1e-12 {
		t.Errorf("after 2s v = (%v, %v), want (0, -6)", vel.X, vel.Z)
	}
	if pos.Z >= 0 {
		t.Errorf("z = %v, expected forward travel toward -z", pos.Z)
	}

	// Releasing the keys decays toward rest.
	for i := 0; i < 120; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 1.0/60)
	}
	if vel.HorizontalSpeed() > 1e-3 {
		t.Errorf("speed after friction = %v, want ~0", vel.HorizontalSpeed())
	}
}

func TestHeightfieldController_LargeDeltaIsStable(t *testing.T) {
	c := NewHeightfieldController(flatProbe{extent: 1000}, testMovement())
	body := testBody()
	pos := components.Position{Y: body.EyeHeight}
	var vel components.Velocity

	c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Right: true}, 1.0)
	if vel.X != 6 {
		t.Errorf("vx = %v, want clamped blend to reach exactly 6", vel.X)
	}
}

func TestHeightfieldController_EdgeIsWall(t *testing.T) {
	c := NewHeightfieldController(flatProbe{extent: 5}, testMovement())
	body := testBody()
	pos := components.Position{X: 4.95, Y: body.EyeHeight}
	vel := components.Velocity{X: 6}

	res := c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Right: true}, 1.0/60)
	if !res.EdgeStop {
		t.Error("expected an edge stop")
	}
	if pos.X != 4.95 {
		t.Errorf("x = %v, want unchanged at the edge", pos.X)
	}
	if vel.X != 0 || vel.Z != 0 {
		t.Errorf("horizontal velocity = (%v, %v), want zeroed", vel.X, vel.Z)
	}
	if !body.Grounded {
		t.Error("player at the edge should still stand on the ground")
	}
}

func TestHeightfieldController_OffMapFalls(t *testing.T) {
	c := NewHeightfieldController(flatProbe{extent: 5}, testMovement())
	body := testBody()
	pos := components.Position{X: 10, Y: 3}
	var vel components.Velocity

	c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Forward: true}, 1.0/60)
	if body.Grounded {
		t.Error("no ground off the map")
	}
	if pos.Y >= 3 {
		t.Errorf("y = %v, want falling", pos.Y)
	}
	if pos.X != 10 || pos.Z != 0 {
		t.Errorf("horizontal position moved to (%v, %v)", pos.X, pos.Z)
	}
}

func TestHeightfieldController_Jump(t *testing.T) {
	m := testMovement()
	c := NewHeightfieldController(flatProbe{extent: 50}, m)
	body := testBody()
	pos := components.Position{Y: body.EyeHeight}
	var vel components.Velocity
	dt := 1.0 / 60

	res := c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Jump: true}, dt)
	if !res.Jumped {
		t.Error("grounded jump not reported")
	}
	if want := m.JumpSpeed * m.Gravity * dt; vel.Y != want {
		t.Fatalf("vy after jump = %v, want %v", vel.Y, want)
	}

	peak := pos.Y
	landed := false
	for i := 0; i < 300; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, dt)
		peak = max(peak, pos.Y)
		if body.Grounded {
			landed = true
			break
		}
	}
	if peak <= body.EyeHeight+0.5 {
		t.Errorf("peak = %v, expected a visible jump", peak)
	}
	if !landed {
		t.Error("player never landed")
	}
}

func TestHeightfieldController_FollowsSampler(t *testing.T) {
	f, err := GenerateHeightField(HeightFieldParams{Width: 40, Depth: 40, NoiseScale: 0.06, Seed: 1337, FBM: DefaultFBMParams()})
	if err != nil {
		t.Fatal(err)
	}
	s := NewHeightSampler(f, 10)
	c := NewHeightfieldController(s, testMovement())
	body := testBody()
	pos := components.Position{Y: 40}
	var vel components.Velocity

	for i := 0; i < 600; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 1.0/60)
	}
	ground, ok := s.Sample(pos.X, pos.Z)
	if !ok {
		t.Fatal("player left the map")
	}
	if !body.Grounded || math.Abs(pos.Y-(ground+body.EyeHeight)) > 1e-9 {
		t.Errorf("y = %v grounded = %v, want %v", pos.Y, body.Grounded, ground+body.EyeHeight)
	}
}

// ---------- Voxel controller ----------

func TestVoxelController_LandsOnFloor(t *testing.T) {
	blocks := floorWithWall()
	c := NewVoxelController(blocks, testBody(), testMovement())
	body := testBody()
	pos := components.Position{X: 0.5, Y: 20, Z: 0.5}
	var vel components.Velocity

	for i := 0; i < 300; i++ {
		c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 1.0/60)
	}
	if !body.Grounded {
		t.Fatal("never grounded")
	}
	if pos.Y < 1 || pos.Y > 1.05 {
		t.Errorf("feet y = %v, want resting on top of the floor at 1", pos.Y)
	}
	if vel.Y != 0 {
		t.Errorf("vy = %v, want 0", vel.Y)
	}
}

func TestVoxelController_NoTunnellingOnLargeDelta(t *testing.T) {
	blocks := floorWithWall()
	c := NewVoxelController(blocks, testBody(), testMovement())
	body := testBody()
	pos := components.Position{X: 0.5, Y: 3, Z: 0.5}
	vel := components.Velocity{Y: -40}

	c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{}, 0.1)
	if pos.Y < 1 {
		t.Errorf("feet y = %v fell through the floor", pos.Y)
	}
}

func TestVoxelController_WallStopsOneAxis(t *testing.T) {
	blocks := floorWithWall()
	c := NewVoxelController(blocks, testBody(), testMovement())
	body := testBody()
	body.Grounded = true
	pos := components.Position{X: 1.65, Y: 1, Z: 0.5}
	var vel components.Velocity

	// Yaw pi/4: forward is (+x, -z) diagonal.
	look := components.Orientation{Yaw: math.Pi / 4}
	c.Step(&pos, &vel, &body, look, components.Intent{Forward: true}, 1.0/60)

	if pos.X != 1.65 {
		t.Errorf("x = %v, want blocked at the wall", pos.X)
	}
	if pos.Z >= 0.5 {
		t.Errorf("z = %v, want movement toward -z", pos.Z)
	}
	if vel.X != 0 {
		t.Errorf("vx = %v, want zeroed by the wall", vel.X)
	}
}

func TestVoxelController_JumpRequiresGround(t *testing.T) {
	m := testMovement()
	blocks := floorWithWall()
	c := NewVoxelController(blocks, testBody(), m)
	dt := 1.0 / 60

	body := testBody()
	pos := components.Position{X: 0.5, Y: 10, Z: 0.5}
	var vel components.Velocity
	if res := c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Jump: true}, dt); res.Jumped || vel.Y > 0 {
		t.Errorf("airborne jump gave vy = %v (jumped=%v)", vel.Y, res.Jumped)
	}

	body.Grounded = true
	pos = components.Position{X: 0.5, Y: 1, Z: 0.5}
	vel = components.Velocity{}
	c.Step(&pos, &vel, &body, components.Orientation{}, components.Intent{Jump: true}, dt)
	if want := m.JumpImpulse(dt) - m.Gravity*dt; math.Abs(vel.Y-want) > 1e-12 {
		t.Errorf("vy = %v, want %v", vel.Y, want)
	}
	if pos.Y <= 1 {
		t.Errorf("y = %v, want lift-off", pos.Y)
	}
}
