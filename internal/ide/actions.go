package ide

import "cobide/pkg/types"

// Action is the state of a toolbar or menu action
type Action struct {
	Enabled bool
	Checked bool
}

// ActionState holds every action whose state depends on the open files.
// New, Open, Quit, Fullscreen and About are always enabled.
type ActionState struct {
	Save       Action
	SaveAs     Action
	Close      Action
	Compile    Action
	Run        Action
	Program    Action
	Subprogram Action
}

// DeriveActions computes the action state from the application state. open
// tells whether a tab is active, fileType is its classification and running
// whether a program run is in flight.
func DeriveActions(open bool, fileType types.FileType, running bool) ActionState {
	var s ActionState
	if !open {
		return s
	}

	s.Save.Enabled = true
	s.SaveAs.Enabled = true
	s.Close.Enabled = true
	if !fileType.IsCobol() {
		return s
	}

	s.Compile.Enabled = true
	s.Program = Action{Enabled: true, Checked: fileType == types.Program}
	s.Subprogram = Action{Enabled: true, Checked: fileType == types.Subprogram}
	// Subprograms are not executable on their own
	s.Run.Enabled = fileType == types.Program && !running
	return s
}
