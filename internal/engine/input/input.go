// Package input turns SDL2 events into preview controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// State is the input gathered during one frame.
type State struct {
	Quit       bool
	Reset      bool    // R was pressed: refit the camera
	Screenshot bool    // F12 was pressed
	DragX      float32 // Mouse motion while the left button is held
	DragY      float32
	Wheel      float32
	Resize     bool
}

// Input handles all input processing.
type Input struct {
	dragging bool
	state    State
}

// New creates a new input handler.
func New() *Input {
	return &Input{}
}

// Update polls SDL events and returns the state of this frame.
func (i *Input) Update() State {
	i.state = State{}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.state
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.state.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.state.Resize = true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE, sdl.K_q:
			i.state.Quit = true
		case sdl.K_r:
			i.state.Reset = true
		case sdl.K_F12:
			i.state.Screenshot = true
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
		}

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.state.DragX += float32(e.XRel)
			i.state.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		i.state.Wheel += float32(e.Y)
	}
}
