package dialog

import (
	"fmt"

	"github.com/i474232898/weather-chat-bot/internal/interpret"
)

// compareSentence renders the compare-to-past verdict: today's value against
// the historical aggregate for the resolved period.
func compareSentence(verdict string, variable interpret.Variable, site string, today Measurement, hist *HistStats) string {
	return fmt.Sprintf(
		"%stoday's peak %s in %s is %g%s but the average for this place in the period between %s and %s is actually %g%s",
		verdict, variable, site, today.Value, today.Units,
		hist.StartDate, hist.EndDate, hist.Value, today.Units,
	)
}

// optimalSentence names the peak value and the date, or date span, it
// occurred on.
func optimalSentence(variable interpret.Variable, op interpret.Operation, site string, hist *HistStats) string {
	s := fmt.Sprintf("The peak %s %s for the period %s to %s in %s is %g",
		op, variable, hist.StartDate, hist.EndDate, site, hist.Value)
	if hist.PeakStart == hist.PeakEnd {
		return s + fmt.Sprintf(" on the date %s", hist.PeakStart)
	}
	return s + fmt.Sprintf(" between the dates %s and %s", hist.PeakStart, hist.PeakEnd)
}

// buildChartCard builds the visual answer around the backend's chart image.
func buildChartCard(variable interpret.Variable, op interpret.Operation, site string, hist *HistStats) Card {
	title := fmt.Sprintf("%s %s for %s %s to %s", op, variable, site, hist.StartDate, hist.EndDate)
	return Card{
		Title:    title,
		ImageURL: hist.ChartURL,
		LinkURL:  hist.ChartURL,
	}
}
