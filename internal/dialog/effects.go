package dialog

// Effect is one outbound presentation action produced while advancing a
// conversation. Exactly one of Text or Card is set.
type Effect struct {
	Text string
	Card *Card
}

// effects accumulates the ordered effect list for a single turn.
type effects struct {
	list []Effect
}

func (e *effects) text(s string) {
	e.list = append(e.list, Effect{Text: s})
}

func (e *effects) card(c Card) {
	e.list = append(e.list, Effect{Card: &c})
}
