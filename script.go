package arbor

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a pointer script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"screenshot": true,
	"click":      true,
	"press":      true,
	"move":       true,
	"release":    true,
	"wait":       true,
}

// ScriptRunner sequences injected pointer events and screenshots across
// frames for automated visual checks. Attach it with Stage.SetScript or run
// it headless with Stage.RunScript.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML or JSON script of the form
//
//	steps:
//	  - {action: click, x: 100, y: 200}
//	  - {action: wait, frames: 3}
//	  - {action: screenshot, label: after-click}
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches r to the stage. Its steps advance at the start of each
// Update, before pointer input is handled.
func (s *Stage) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run and its input has drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(s *Stage) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// RunScript runs r without a window, one frame per iteration: the script
// steps, the hit canvases are redrawn, one queued pointer event is handled
// and pending screenshots are written. It fails if the script has not
// finished after maxFrames frames.
func (s *Stage) RunScript(r *ScriptRunner, maxFrames int) error {
	for frame := 0; frame < maxFrames; frame++ {
		r.step(s)
		if err := s.DrawHit(); err != nil {
			return err
		}
		s.processInjectedInput()
		if len(s.screenshotQueue) > 0 {
			if err := s.DrawScene(); err != nil {
				return err
			}
			s.flushScreenshots()
		}
		if r.Done() && len(s.injectQueue) == 0 {
			return nil
		}
	}
	return fmt.Errorf("arbor: script did not finish within %d frames", maxFrames)
}
