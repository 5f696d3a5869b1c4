package calibration

// Step is a wizard step.
type Step int

// Step enumeration for wizard flow
const (
	StepAskIfKnown      Step = iota // "Do you know your screen size?"
	StepEnterKnownSize              // Manual diagonal entry
	StepChooseObject                // Credit card or compact disk
	StepEnterObjectSize             // Scale the object to match the real one
	StepBrightness                  // Gray ramp
	StepSummary                     // Derived values, final confirm
)

func (s Step) String() string {
	switch s {
	case StepAskIfKnown:
		return "ask-if-known"
	case StepEnterKnownSize:
		return "enter-known-size"
	case StepChooseObject:
		return "choose-object"
	case StepEnterObjectSize:
		return "enter-object-size"
	case StepBrightness:
		return "brightness"
	case StepSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// ViewName is the template view rendered for the step.
func (s Step) ViewName() string {
	return s.String()
}

// Phase groups steps into the three high level stages shown in the header.
type Phase int

const (
	PhaseScreenSize Phase = iota + 1
	PhaseContrast
	PhaseSummary
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseScreenSize, PhaseContrast, PhaseSummary}

func (p Phase) String() string {
	switch p {
	case PhaseScreenSize:
		return "Screen size"
	case PhaseContrast:
		return "Contrast"
	case PhaseSummary:
		return "Summary"
	default:
		return ""
	}
}

// Phase returns the stage a step belongs to.
func (s Step) Phase() Phase {
	switch s {
	case StepBrightness:
		return PhaseContrast
	case StepSummary:
		return PhaseSummary
	default:
		return PhaseScreenSize
	}
}

// Steps lists every step in flow order.
var Steps = []Step{
	StepAskIfKnown,
	StepEnterKnownSize,
	StepChooseObject,
	StepEnterObjectSize,
	StepBrightness,
	StepSummary,
}

// Action is a named user action that moves the wizard forward.
type Action int

const (
	ActionSizeKnown Action = iota
	ActionSizeUnknown
	ActionConfirmManualSize
	ActionChooseCard
	ActionChooseDisk
	ActionConfirmObjectSize
	ActionConfirmBrightness
	ActionFinalConfirm
)

func (a Action) String() string {
	switch a {
	case ActionSizeKnown:
		return "size known"
	case ActionSizeUnknown:
		return "size unknown"
	case ActionConfirmManualSize:
		return "confirm manual size"
	case ActionChooseCard:
		return "choose card"
	case ActionChooseDisk:
		return "choose disk"
	case ActionConfirmObjectSize:
		return "confirm object size"
	case ActionConfirmBrightness:
		return "confirm brightness"
	case ActionFinalConfirm:
		return "final confirm"
	default:
		return "unknown"
	}
}

type edge struct {
	from   Step
	action Action
}

// forward is the fixed transition graph. ActionFinalConfirm completes the
// session instead of moving to another step.
var forward = map[edge]Step{
	{StepAskIfKnown, ActionSizeKnown}:              StepEnterKnownSize,
	{StepAskIfKnown, ActionSizeUnknown}:            StepChooseObject,
	{StepEnterKnownSize, ActionConfirmManualSize}:  StepBrightness,
	{StepChooseObject, ActionChooseCard}:           StepEnterObjectSize,
	{StepChooseObject, ActionChooseDisk}:           StepEnterObjectSize,
	{StepEnterObjectSize, ActionConfirmObjectSize}: StepBrightness,
	{StepBrightness, ActionConfirmBrightness}:      StepSummary,
}

// back is per step, not the inverse of forward.
var back = map[Step]Step{
	StepEnterKnownSize:  StepAskIfKnown,
	StepChooseObject:    StepAskIfKnown,
	StepEnterObjectSize: StepChooseObject,
	StepBrightness:      StepAskIfKnown,
	StepSummary:         StepBrightness,
}

// Actions returns the forward actions available on a step.
func (s Step) Actions() []Action {
	switch s {
	case StepAskIfKnown:
		return []Action{ActionSizeKnown, ActionSizeUnknown}
	case StepEnterKnownSize:
		return []Action{ActionConfirmManualSize}
	case StepChooseObject:
		return []Action{ActionChooseCard, ActionChooseDisk}
	case StepEnterObjectSize:
		return []Action{ActionConfirmObjectSize}
	case StepBrightness:
		return []Action{ActionConfirmBrightness}
	case StepSummary:
		return []Action{ActionFinalConfirm}
	default:
		return nil
	}
}

// HasBack reports whether the step offers a back button.
func (s Step) HasBack() bool {
	_, ok := back[s]
	return ok
}
