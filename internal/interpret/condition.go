// Package interpret maps raw condition phrases from the NLU onto the measured
// variable, aggregation operation and comparator of a historical query.
//
// The matching is deliberately permissive: beyond the enumerated literals,
// substring checks catch phrases the NLU emits that are not in the literal
// set ("average temperature", "warmest temperature of the year", ...).
package interpret

import (
	"fmt"

	"github.com/i474232898/weather-chat-bot/internal/common"
)

var (
	ErrUnknownComparator = fmt.Errorf("unknown comparator")
	ErrUnknownVariable   = fmt.Errorf("unknown variable")
	ErrUnknownOperation  = fmt.Errorf("unknown operation")
)

// Variable is a measured quantity the historical backend can aggregate.
type Variable string

const VariableTemperature Variable = "temperature"

// Operation is the aggregation applied over the queried period.
type Operation string

const (
	OperationMax  Operation = "max"
	OperationMin  Operation = "min"
	OperationMean Operation = "mean"
)

// Comparator orders today's value against the historical aggregate.
type Comparator string

const (
	ComparatorGreater Comparator = "greater"
	ComparatorLess    Comparator = "less"
)

// Apply evaluates the comparator for (today, historical).
func (c Comparator) Apply(a, b float64) bool {
	if c == ComparatorLess {
		return a < b
	}
	return a > b
}

// ParseComparator derives the comparator from a condition phrase.
func ParseComparator(condition string) (Comparator, error) {
	switch condition {
	case "hotter", "warmer":
		return ComparatorGreater, nil
	case "colder":
		return ComparatorLess, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComparator, condition)
}

// ParseVariable derives the measured variable from a condition phrase.
func ParseVariable(condition string) (Variable, error) {
	switch condition {
	case "hotter", "hottest", "warmer", "warmest", "colder", "coldest":
		return VariableTemperature, nil
	}
	if common.HasAny(condition, "temperature") {
		return VariableTemperature, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariable, condition)
}

// ParseOperation derives the aggregation operation from a condition phrase.
func ParseOperation(condition string) (Operation, error) {
	switch condition {
	case "hottest", "warmest":
		return OperationMax, nil
	case "coldest":
		return OperationMin, nil
	case "hotter", "warmer", "colder":
		return OperationMean, nil
	}
	if common.HasAny(condition, "average") {
		return OperationMean, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, condition)
}
