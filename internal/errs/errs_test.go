package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	err := Transient("fetch jobs", errors.New("connection reset"))

	assert.True(t, IsTransient(err))
	assert.True(t, IsTransient(fmt.Errorf("search stage: %w", err)), "classification survives wrapping")
	assert.False(t, IsTransient(errors.New("connection reset")))
	assert.False(t, IsTransient(nil))
}

func TestTransient_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transient("fetch jobs", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fetch jobs")
}

func TestIsIncomplete(t *testing.T) {
	err := Incomplete("extract", "no skills found")

	assert.True(t, IsIncomplete(err))
	assert.True(t, IsIncomplete(fmt.Errorf("extract stage: %w", err)))
	assert.False(t, IsIncomplete(Transient("extract", errors.New("timeout"))))
	assert.Contains(t, err.Error(), "no skills found")
}

func TestIsExhausted(t *testing.T) {
	err := Exhausted("user-1", "day")

	assert.True(t, IsExhausted(err))
	assert.True(t, IsExhausted(fmt.Errorf("track stage: %w", err)))
	assert.False(t, IsExhausted(errors.New("day limit")))
	assert.Contains(t, err.Error(), "day window")
}

func TestIsConfig(t *testing.T) {
	err := Config("auto_apply_threshold", "must exceed approval threshold")

	assert.True(t, IsConfig(err))
	assert.True(t, IsConfig(fmt.Errorf("startup: %w", err)))
	assert.False(t, IsConfig(Incomplete("extract", "empty")))
}

func TestClassificationsAreDisjoint(t *testing.T) {
	err := Transient("op", Incomplete("inner", "partial payload"))

	// Wrapping an incomplete cause in a transient error keeps both visible.
	assert.True(t, IsTransient(err))
	assert.True(t, IsIncomplete(err))
	assert.False(t, IsExhausted(err))
	assert.False(t, IsConfig(err))
}
