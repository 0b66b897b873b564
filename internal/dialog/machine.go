// Package dialog implements the multi-turn slot-filling state machine at the
// heart of the weather agent. Each inbound message advances the conversation:
// the NLU picks a flow, the flow fills slots (suspending for the user when a
// location is missing), and completed flows query the forecast and historical
// backends to build the answer.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/i474232898/weather-chat-bot/internal/interpret"
	"github.com/i474232898/weather-chat-bot/internal/timeframe"
)

// Machine advances conversation states. It is stateless itself; all mutable
// state lives in the per-conversation State passed to Advance.
type Machine struct {
	nlu      Classifier
	forecast ForecastProvider
	history  HistoryProvider
	logger   *slog.Logger

	rand *rand.Rand
	now  func() time.Time
}

// NewMachine creates a Machine wired to its collaborators.
func NewMachine(nlu Classifier, forecast ForecastProvider, history HistoryProvider, logger *slog.Logger) *Machine {
	return &Machine{
		nlu:      nlu,
		forecast: forecast,
		history:  history,
		logger:   logger,
		rand:     newLockedRand(time.Now().UnixNano()),
		now:      time.Now,
	}
}

// Advance processes one inbound message for the given state and returns the
// ordered presentation effects of the turn. A suspended flow on the stack
// consumes the message as its awaited reply; otherwise the message is
// classified and dispatched to a flow.
func (m *Machine) Advance(ctx context.Context, st *State, text string) []Effect {
	var fx effects

	if frame, ok := st.pop(); ok {
		m.resume(ctx, st, frame, text, &fx)
		return fx.list
	}

	cls, err := m.nlu.Classify(ctx, text)
	if err != nil {
		// An unreachable NLU is indistinguishable from an unmatched intent.
		m.logger.Warn("nlu classify failed", "error", err)
		cls = Classification{Intent: IntentNone}
	}

	switch cls.Intent {
	case IntentGreeting:
		m.runGreeting(st, &fx)
	case IntentHelp:
		fx.text(infoPhrase)
		fx.text(sampleExamples(m.rand, 3))
	case IntentThanks:
		fx.text(pick(m.rand, thanksPool))
	case IntentGoodbye:
		fx.text(pick(m.rand, goodbyePool))
	case IntentGetForecast:
		m.runGetForecast(ctx, st, cls.Entities, &fx)
	case IntentCompareToPast:
		m.runCompareToPast(ctx, st, cls.Entities, &fx)
	case IntentFindOptimal:
		m.runFindOptimal(ctx, st, cls.Entities, &fx)
	default:
		fx.text(unknownPhrase)
	}

	return fx.list
}

// resume feeds the awaited reply into the suspended flow and hands control
// back to its parent.
func (m *Machine) resume(ctx context.Context, st *State, frame Frame, text string, fx *effects) {
	if frame.Flow != FlowGetLocation || frame.Step != 2 {
		m.logger.Error("unexpected suspended frame", "flow", frame.Flow, "step", frame.Step)
		st.Stack = nil
		fx.text(unknownPhrase)
		return
	}

	// getLocation step 2: the raw reply is the location.
	st.Slots[SlotLocation] = text

	parent, ok := st.pop()
	if !ok {
		return
	}

	switch parent.Flow {
	case FlowGetForecast:
		m.forecastStep(ctx, st, fx)
	case FlowCompareToPast:
		m.compareStep(ctx, st, fx)
	case FlowFindOptimal:
		m.findOptimalStep(ctx, st, fx)
	default:
		m.logger.Error("unexpected parent frame", "flow", parent.Flow)
	}
}

// runGreeting greets, and introduces the bot exactly once per conversation.
func (m *Machine) runGreeting(st *State, fx *effects) {
	fx.text(pick(m.rand, greetingPool))
	if !st.Greeted {
		fx.text(infoPhrase)
		fx.text(sampleExamples(m.rand, 3))
		st.Greeted = true
	}
}

// suspendForLocation prompts "Where?" and parks the parent flow so that the
// next inbound message resumes it after getLocation completes.
func (m *Machine) suspendForLocation(st *State, parent FlowName, fx *effects) {
	st.push(Frame{Flow: parent, Step: 2})
	st.push(Frame{Flow: FlowGetLocation, Step: 2})
	fx.text(wherePrompt)
}

func (m *Machine) runGetForecast(ctx context.Context, st *State, entities []Entity, fx *effects) {
	st.MergeEntities(entities)
	if !st.HasSlot(SlotLocation) {
		m.suspendForLocation(st, FlowGetForecast, fx)
		return
	}
	m.forecastStep(ctx, st, fx)
}

func (m *Machine) forecastStep(ctx context.Context, st *State, fx *effects) {
	fx.text(pick(m.rand, thinkingPool))

	res, err := m.forecast.Query(ctx, st.Slots[SlotLocation])
	if res.Forecast == nil {
		// Failure payloads are surfaced verbatim.
		m.logger.Warn("forecast query failed", "location", st.Slots[SlotLocation], "error", err)
		fx.text(res.Raw)
		return
	}
	fx.text(res.Forecast.Summary)
}

func (m *Machine) runCompareToPast(ctx context.Context, st *State, entities []Entity, fx *effects) {
	st.MergeEntities(entities)
	if !st.HasSlot(SlotLocation) {
		m.suspendForLocation(st, FlowCompareToPast, fx)
		return
	}
	m.compareStep(ctx, st, fx)
}

func (m *Machine) compareStep(ctx context.Context, st *State, fx *effects) {
	fx.text(pick(m.rand, thinkingPool))

	res, err := m.forecast.Query(ctx, st.Slots[SlotLocation])
	if res.Forecast == nil {
		m.logger.Warn("forecast query failed", "location", st.Slots[SlotLocation], "error", err)
		fx.text(res.Raw)
		return
	}
	fcst := res.Forecast

	// Condition and timebounding are not prompted for; a missing or garbled
	// slot surfaces as the interpreter's typed failure.
	condition := st.Slots[SlotCondition]
	variable, err := interpret.ParseVariable(condition)
	if err != nil {
		m.misunderstood(err, fx)
		return
	}
	cmp, err := interpret.ParseComparator(condition)
	if err != nil {
		m.misunderstood(err, fx)
		return
	}
	op, err := interpret.ParseOperation(condition)
	if err != nil {
		m.misunderstood(err, fx)
		return
	}
	rng, err := timeframe.Resolve(st.Slots[SlotTimeBounding], m.now())
	if err != nil {
		m.misunderstood(err, fx)
		return
	}

	fx.text(pick(m.rand, waitingPool))

	hres, err := m.history.Climatology(ctx, HistQuery{
		Lat:       fcst.Lat,
		Lon:       fcst.Lon,
		Variable:  variable,
		Operation: op,
		Range:     rng,
	})
	if hres.Stats == nil {
		m.logger.Warn("historical query failed", "error", err)
		fx.text(hres.Raw)
		return
	}
	hist := hres.Stats

	today := fcst.Current[variable]
	verdict := "No, "
	if cmp.Apply(today.Value, hist.Value) {
		verdict = "Yes, "
	}
	fx.text(compareSentence(verdict, variable, fcst.SiteName, today, hist))
	fx.card(buildChartCard(variable, op, fcst.SiteName, hist))
}

func (m *Machine) runFindOptimal(ctx context.Context, st *State, entities []Entity, fx *effects) {
	st.MergeEntities(entities)
	if !st.HasSlot(SlotLocation) {
		m.suspendForLocation(st, FlowFindOptimal, fx)
		return
	}
	m.findOptimalStep(ctx, st, fx)
}

func (m *Machine) findOptimalStep(ctx context.Context, st *State, fx *effects) {
	fx.text(pick(m.rand, thinkingPool))

	res, err := m.forecast.Query(ctx, st.Slots[SlotLocation])
	if res.Forecast == nil {
		m.logger.Warn("forecast query failed", "location", st.Slots[SlotLocation], "error", err)
		fx.text(errorPhrase)
		return
	}
	fcst := res.Forecast

	condition := st.Slots[SlotCondition]
	variable, err := interpret.ParseVariable(condition)
	if err != nil {
		m.misunderstood(err, fx)
		return
	}
	op, err := interpret.ParseOperation(condition)
	if err != nil {
		m.misunderstood(err, fx)
		return
	}

	// No timebounding means the dataset's full baseline.
	rng := timeframe.Range{}
	if st.HasSlot(SlotTimeBounding) {
		rng, err = timeframe.Resolve(st.Slots[SlotTimeBounding], m.now())
		if err != nil {
			m.misunderstood(err, fx)
			return
		}
	}

	fx.text(pick(m.rand, waitingPool))

	q := HistQuery{
		Lat:       fcst.Lat,
		Lon:       fcst.Lon,
		Variable:  variable,
		Operation: op,
		Range:     rng,
	}

	var hres HistResult
	if st.Slots[SlotTimeModifier] == "is" {
		hres, err = m.history.Climatology(ctx, q)
	} else {
		hres, err = m.history.RangeQuery(ctx, q)
	}
	if err != nil || hres.Stats == nil {
		// This flow recovers backend failures with a generic phrase instead
		// of surfacing the raw payload.
		m.logger.Warn("historical query failed", "error", err)
		fx.text(errorPhrase)
		return
	}

	fx.text(optimalSentence(variable, op, fcst.SiteName, hres.Stats))
	fx.card(buildChartCard(variable, op, fcst.SiteName, hres.Stats))
}

// misunderstood converts an interpreter or resolver failure into the
// user-visible fallback. Unexpected error kinds are logged louder.
func (m *Machine) misunderstood(err error, fx *effects) {
	switch {
	case errors.Is(err, interpret.ErrUnknownComparator),
		errors.Is(err, interpret.ErrUnknownVariable),
		errors.Is(err, interpret.ErrUnknownOperation),
		errors.Is(err, timeframe.ErrUnresolvedTimeframe):
		m.logger.Info("could not interpret entities", "error", err)
	default:
		m.logger.Error("unexpected interpretation failure", "error", err)
	}
	fx.text(misunderstoodPhrase)
}
