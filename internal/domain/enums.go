package domain

// Stage is one bucket of the fixed board pipeline.
type Stage string

const (
	StageTodo       Stage = "todo"
	StageInProgress Stage = "inProgress"
	StageTesting    Stage = "testing"
	StageDone       Stage = "done"
)

// Pipeline is the canonical stage order, initial stage first.
var Pipeline = []Stage{StageTodo, StageInProgress, StageTesting, StageDone}

// Operation names an action the board can apply to a task.
type Operation string

const (
	OpCreate  Operation = "create"
	OpEdit    Operation = "edit"
	OpDelete  Operation = "delete"
	OpAdvance Operation = "advance"
	OpReturn  Operation = "return"
)

// Permissions is the set of operations a stage allows on the tasks it holds.
type Permissions struct {
	Create  bool
	Edit    bool
	Delete  bool
	Advance bool
	Return  bool
}

var stagePermissions = map[Stage]Permissions{
	StageTodo:       {Create: true, Edit: true, Delete: true, Advance: true},
	StageInProgress: {Edit: true, Advance: true},
	StageTesting:    {Edit: true, Advance: true, Return: true},
	StageDone:       {Delete: true},
}

// ParseStage converts a raw stage name, reporting whether it is known.
func ParseStage(s string) (Stage, bool) {
	st := Stage(s)
	return st, st.Valid()
}

// Valid reports whether s is one of the four pipeline stages.
func (s Stage) Valid() bool {
	_, ok := stagePermissions[s]
	return ok
}

// Permissions returns the declared permission set of the stage.
// Unknown stages allow nothing.
func (s Stage) Permissions() Permissions {
	return stagePermissions[s]
}

// Allows reports whether op is permitted on a task sitting in s.
func (s Stage) Allows(op Operation) bool {
	p := s.Permissions()
	switch op {
	case OpCreate:
		return p.Create
	case OpEdit:
		return p.Edit
	case OpDelete:
		return p.Delete
	case OpAdvance:
		return p.Advance
	case OpReturn:
		return p.Return
	default:
		return false
	}
}

// IsTerminal returns true if no transition leaves the stage.
func (s Stage) IsTerminal() bool {
	return s == StageDone
}

// Next returns the stage an advance moves to. ok is false for the
// terminal stage and for unknown stages.
func (s Stage) Next() (next Stage, ok bool) {
	i := s.Index()
	if i < 0 || i == len(Pipeline)-1 {
		return "", false
	}
	return Pipeline[i+1], true
}

// ReturnTarget returns the stage a return sends a task back to.
func (s Stage) ReturnTarget() (Stage, bool) {
	if s == StageTesting {
		return StageInProgress, true
	}
	return "", false
}

// ValidTransition checks if a stage change is allowed.
// Allowed: todo->inProgress, inProgress->testing, testing->done,
// testing->inProgress (return).
func (s Stage) ValidTransition(to Stage) bool {
	switch s {
	case StageTodo:
		return to == StageInProgress
	case StageInProgress:
		return to == StageTesting
	case StageTesting:
		return to == StageDone || to == StageInProgress
	default:
		return false
	}
}

// Index returns the position of s in the pipeline, or -1.
func (s Stage) Index() int {
	for i, st := range Pipeline {
		if st == s {
			return i
		}
	}
	return -1
}
