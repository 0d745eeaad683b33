package main

import (
	"github.com/akmonengine/lumen/input"
	"github.com/hajimehoshi/ebiten/v2"
)

var keyMap = map[input.Key][]ebiten.Key{
	input.KeyW:      {ebiten.KeyW, ebiten.KeyArrowUp},
	input.KeyA:      {ebiten.KeyA, ebiten.KeyArrowLeft},
	input.KeyS:      {ebiten.KeyS, ebiten.KeyArrowDown},
	input.KeyD:      {ebiten.KeyD, ebiten.KeyArrowRight},
	input.KeySpace:  {ebiten.KeySpace},
	input.KeyX:      {ebiten.KeyX},
	input.KeyShift:  {ebiten.KeyShift},
	input.KeyEscape: {ebiten.KeyEscape},
	input.KeyTab:    {ebiten.KeyTab},
	input.KeyQ:      {ebiten.KeyQ},
	input.KeyE:      {ebiten.KeyE},
}

// Input polls ebiten once per frame into an input.State
type Input struct {
	lastX, lastY int
	tracking     bool
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Poll() input.State {
	var state input.State

	for key, bindings := range keyMap {
		for _, k := range bindings {
			if ebiten.IsKeyPressed(k) {
				state = state.Press(key)
				break
			}
		}
	}

	mx, my := ebiten.CursorPosition()
	if !i.tracking {
		i.lastX, i.lastY = mx, my
		i.tracking = true
	}
	dx, dy := mx-i.lastX, my-i.lastY
	i.lastX, i.lastY = mx, my

	state = state.WithMouse(float64(dx), float64(dy), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	state.RightButton = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	return state
}
