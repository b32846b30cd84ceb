package core

import (
	"curvedb/calendar"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	for _, policy := range Policies() {
		parsed, err := ParsePolicy(policy.String())
		assert.NoError(t, err)
		assert.Equal(t, policy, parsed)
	}

	parsed, err := ParsePolicy(" Period-End ")
	assert.NoError(t, err)
	assert.Equal(t, PeriodEnd, parsed)

	_, err = ParsePolicy("median")
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	assert.False(t, Policy(5).Valid())
	assert.Equal(t, "policy(5)", Policy(5).String())
}

func TestResultIDsDistinct(t *testing.T) {
	seen := make(map[int64]bool)
	for _, id := range resultIDs() {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, len(Policies())*len(calendar.Kinds()))
}
