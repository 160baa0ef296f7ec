package session

import "meshview/internal/mesh"

// Event is anything Session.Handle reacts to.
type Event interface{ event() }

// Load carries a full snapshot from the transport.
type Load struct{ Msg *mesh.Load }

// Delta carries a partial update from the transport.
type Delta struct{ Msg *mesh.Delta }

// SwitchField asks to make Name the active field.
type SwitchField struct{ Name string }

// TogglePause flips the update gate.
type TogglePause struct{}

// Resize reports the display size in display units.
type Resize struct{ Width, Height float64 }

// Hover reports the unit under the pointer, -1 for none.
type Hover struct{ Unit int }

// Fault reports a transport error so it reaches the status line.
type Fault struct{ Err error }

func (Load) event()        {}
func (Delta) event()       {}
func (SwitchField) event() {}
func (TogglePause) event() {}
func (Resize) event()      {}
func (Hover) event()       {}
func (Fault) event()       {}
