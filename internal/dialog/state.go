package dialog

// SlotType names a piece of information the dialog collects before it can
// complete a flow.
type SlotType string

const (
	SlotLocation     SlotType = "location"
	SlotCondition    SlotType = "condition"
	SlotTimeBounding SlotType = "timebounding"
	SlotTimeModifier SlotType = "timemodifier"
)

func knownSlot(t SlotType) bool {
	switch t {
	case SlotLocation, SlotCondition, SlotTimeBounding, SlotTimeModifier:
		return true
	}
	return false
}

// FlowName identifies one dialog flow.
type FlowName string

const (
	FlowGetForecast   FlowName = "getForecast"
	FlowGetLocation   FlowName = "getLocation"
	FlowCompareToPast FlowName = "compareToPast"
	FlowFindOptimal   FlowName = "findOptimal"
)

// Frame marks a suspended flow and the step it resumes at.
type Frame struct {
	Flow FlowName `json:"flow"`
	Step int      `json:"step"`
}

// State is the per-conversation dialog state. It lives for the whole
// conversation; slots are only ever overwritten, never cleared.
type State struct {
	Slots   map[SlotType]string `json:"slots"`
	Greeted bool                `json:"greeted"`

	// Stack holds suspended flows, innermost last. Non-empty between the
	// "Where?" prompt and the user's reply.
	Stack []Frame `json:"stack,omitempty"`
}

// NewState returns an empty conversation state.
func NewState() *State {
	return &State{Slots: make(map[SlotType]string)}
}

// Clone returns a deep copy, so stores can hand out states that callers may
// mutate freely before writing back.
func (s *State) Clone() *State {
	c := &State{
		Slots:   make(map[SlotType]string, len(s.Slots)),
		Greeted: s.Greeted,
	}
	for k, v := range s.Slots {
		c.Slots[k] = v
	}
	if len(s.Stack) > 0 {
		c.Stack = append([]Frame(nil), s.Stack...)
	}
	return c
}

// MergeEntities folds NLU entities into the slots. Last occurrence wins per
// type; entities of unknown types are dropped.
func (s *State) MergeEntities(entities []Entity) {
	if s.Slots == nil {
		s.Slots = make(map[SlotType]string)
	}
	for _, e := range entities {
		if knownSlot(e.Type) {
			s.Slots[e.Type] = e.Value
		}
	}
}

// HasSlot reports whether the named slot has been filled.
func (s *State) HasSlot(t SlotType) bool {
	_, ok := s.Slots[t]
	return ok
}

// push suspends a flow frame; pop removes and returns the innermost one.
func (s *State) push(f Frame) {
	s.Stack = append(s.Stack, f)
}

func (s *State) pop() (Frame, bool) {
	if len(s.Stack) == 0 {
		return Frame{}, false
	}
	f := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return f, true
}
