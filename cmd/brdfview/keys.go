package main

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/brdfview/pkg/math3d"
	"github.com/taigrr/brdfview/pkg/shading"
)

// Action is what a key press asks the viewer to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionShading     // Binding.Command is applied to the material and lights
	ActionToggleLight // Binding.Light is switched on or off
	ActionRotate      // Binding.Axis gets Binding.Torque while held
	ActionImpulse
	ActionReset
	ActionZoomIn
	ActionZoomOut
	ActionWireframe
	ActionAxes
	ActionHUD
	ActionSnapshot
)

// Binding is the resolved meaning of a key press.
type Binding struct {
	Action  Action
	Command shading.Command
	Light   int
	Axis    math3d.Axis
	Torque  float64
}

const torqueStrength = 3.0

type keyBinding struct {
	keys    []string
	binding Binding
}

// keyBindings is matched in order, so ctrl+c precedes the plain c binding.
var keyBindings = []keyBinding{
	{[]string{"ctrl+c", "esc"}, Binding{Action: ActionQuit}},

	{[]string{"c"}, Binding{Action: ActionShading, Command: shading.ToggleMicrofacet}},
	{[]string{"v"}, Binding{Action: ActionShading, Command: shading.ToggleDistribution}},
	{[]string{"b"}, Binding{Action: ActionShading, Command: shading.ToggleMasking}},
	{[]string{"r"}, Binding{Action: ActionShading, Command: shading.IncreaseRoughness}},
	{[]string{"t"}, Binding{Action: ActionShading, Command: shading.DecreaseRoughness}},
	{[]string{"y"}, Binding{Action: ActionShading, Command: shading.IncreaseF0}},
	{[]string{"u"}, Binding{Action: ActionShading, Command: shading.DecreaseF0}},
	{[]string{"left"}, Binding{Action: ActionShading, Command: shading.MoveLightLeft}},
	{[]string{"right"}, Binding{Action: ActionShading, Command: shading.MoveLightRight}},

	{[]string{"w", "up"}, Binding{Action: ActionRotate, Axis: math3d.AxisX, Torque: -torqueStrength}},
	{[]string{"s", "down"}, Binding{Action: ActionRotate, Axis: math3d.AxisX, Torque: torqueStrength}},
	{[]string{"a"}, Binding{Action: ActionRotate, Axis: math3d.AxisY, Torque: -torqueStrength}},
	{[]string{"d"}, Binding{Action: ActionRotate, Axis: math3d.AxisY, Torque: torqueStrength}},
	{[]string{"q"}, Binding{Action: ActionRotate, Axis: math3d.AxisZ, Torque: -torqueStrength}},
	{[]string{"e"}, Binding{Action: ActionRotate, Axis: math3d.AxisZ, Torque: torqueStrength}},

	{[]string{"space"}, Binding{Action: ActionImpulse}},
	{[]string{"z"}, Binding{Action: ActionReset}},
	{[]string{"=", "+"}, Binding{Action: ActionZoomIn}},
	{[]string{"-", "_"}, Binding{Action: ActionZoomOut}},
	{[]string{"x"}, Binding{Action: ActionWireframe}},
	{[]string{"g"}, Binding{Action: ActionAxes}},
	{[]string{"?", "shift+/"}, Binding{Action: ActionHUD}},
	{[]string{"p"}, Binding{Action: ActionSnapshot}},
}

func init() {
	for i := range shading.MaxLights {
		key := string(rune('1' + i))
		keyBindings = append(keyBindings, keyBinding{[]string{key}, Binding{Action: ActionToggleLight, Light: i}})
	}
}

// Lookup resolves a key to its binding.
func Lookup(key uv.Key) (Binding, bool) {
	for _, kb := range keyBindings {
		if key.MatchString(kb.keys...) || matchText(key, kb.keys) {
			return kb.binding, true
		}
	}
	return Binding{}, false
}

// matchText catches printable keys MatchString cannot spell, such as "+".
func matchText(key uv.Key, keys []string) bool {
	if key.Text == "" {
		return false
	}
	for _, k := range keys {
		if key.Text == k {
			return true
		}
	}
	return false
}
