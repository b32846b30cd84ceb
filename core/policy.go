package core

import (
	"curvedb/calendar"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPolicy = errors.New("unknown resampling policy")

// Policy selects how a curve is reduced to one value per period.
type Policy int8

const (
	WeightedMean Policy = iota
	PeriodEnd
)

var policyNames = map[Policy]string{
	WeightedMean: "weighted-mean",
	PeriodEnd:    "period-end",
}

func Policies() []Policy {
	return []Policy{WeightedMean, PeriodEnd}
}

func (policy Policy) Valid() bool {
	_, ok := policyNames[policy]
	return ok
}

func (policy Policy) String() string {
	if name, ok := policyNames[policy]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int8(policy))
}

func ParsePolicy(name string) (Policy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "weighted-mean", "weightedmean", "mean":
		return WeightedMean, nil
	case "period-end", "periodend", "end":
		return PeriodEnd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// resultID packs a (policy, period) pair into the sub ID of a result key.
func resultID(policy Policy, kind calendar.PeriodKind) int64 {
	return int64(policy)<<8 | int64(kind)
}

func resultIDs() []int64 {
	ids := make([]int64, 0)
	for _, policy := range Policies() {
		for _, kind := range calendar.Kinds() {
			ids = append(ids, resultID(policy, kind))
		}
	}
	return ids
}
