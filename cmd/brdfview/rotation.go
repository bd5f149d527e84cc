package main

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/brdfview/pkg/math3d"
)

// torqueDecay is applied to held-key torque every frame; key release
// events are not reported by every terminal.
const torqueDecay = 0.9

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewRotationAxis creates an axis whose velocity is critically damped
// toward zero.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState is the model's orientation plus the torque from held keys.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	torque           math3d.Vec3 // pitch, yaw, roll
	fps              int
}

func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

// Step advances one frame of dt seconds: held torque becomes an impulse,
// then decays, and the springs integrate.
func (r *RotationState) Step(dt float64) {
	r.ApplyImpulse(r.torque.X*dt, r.torque.Y*dt, r.torque.Z*dt)
	r.torque = r.torque.Scale(torqueDecay)

	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// SetTorque sets the torque on one axis; 0 releases it.
func (r *RotationState) SetTorque(axis math3d.Axis, v float64) {
	switch axis {
	case math3d.AxisX:
		r.torque.X = v
	case math3d.AxisY:
		r.torque.Y = v
	case math3d.AxisZ:
		r.torque.Z = v
	}
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
	r.torque = math3d.Vec3{}
}

// Matrix returns the model rotation.
func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}
