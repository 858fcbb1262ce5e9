package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/systems"
)

// Action is a command issued from the control panel.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionShuffle
	ActionStop
	ActionReveal
	ActionReset
	ActionAuto
)

// ControlState is what the panel needs to decide which buttons are live.
type ControlState struct {
	Status systems.Status
	Winner string
	Auto   bool
}

// ControlsPanel renders the draw buttons and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and returns the action clicked this frame, if any.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) Action {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	buttonH := float32(26)

	toggles := overlays.All()
	height := padding*3 + lineHeight*3 + int32(buttonH+6)*3 + int32(len(toggles))*(lineHeight+4)
	r.DrawPanel(c.x, c.y, c.width, height)

	y := c.y + padding
	x := c.x + padding
	inner := float32(c.width - padding*2)
	half := (inner - 6) / 2

	y = r.DrawSectionHeader(x, y, "Draw")
	y = r.DrawLabelValue(x, y, "Status", state.Status.String())
	winner := state.Winner
	if winner == "" {
		winner = "-"
	}
	y = r.DrawLabelValue(x, y, "Winner", winner)
	y += 4

	action := ActionNone
	row := func(left, right string, la, ra Action) {
		if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: buttonH}, left) {
			action = la
		}
		if right != "" && gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: buttonH}, right) {
			action = ra
		}
		y += int32(buttonH) + 6
	}

	switch state.Status {
	case systems.StatusIdle, systems.StatusRevealed:
		row("Start [Space]", "Reset [R]", ActionStart, ActionReset)
	case systems.StatusRolling:
		row("Shuffle [S]", "Stop [Space]", ActionShuffle, ActionStop)
	case systems.StatusShuffling:
		row("Stop [Space]", "Reset [R]", ActionStop, ActionReset)
	case systems.StatusConverging:
		row("Reveal [Enter]", "Reset [R]", ActionReveal, ActionReset)
	}
	row(toggleText(state.Auto, "Manual", "Auto [D]"), "", ActionAuto, ActionNone)
	y += 4

	for _, desc := range toggles {
		label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		checked := overlays.IsEnabled(desc.ID)
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(lineHeight - 2), Height: float32(lineHeight - 2)}
		if gui.CheckBox(bounds, label, checked) != checked {
			overlays.Toggle(desc.ID)
		}
		y += lineHeight + 4
	}

	return action
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
