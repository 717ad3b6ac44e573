// Package systems contains the per-tick ECS systems that drive the war room:
// draining raw input, stepping the locomotion controller, and animating
// target highlights. Systems run in registration order inside a single tick;
// there is no concurrency between them.
package systems

import (
	"warvr/internal/input"
	"warvr/internal/vr"
)

// FrameInput is the ECS resource holding this frame's digested input: the
// event snapshot plus the sampled VR source list. Written by InputSystem,
// read by LocomotionSystem.
type FrameInput struct {
	Snap    input.Snapshot
	Sources []vr.Source
}
