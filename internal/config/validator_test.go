package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatorDefaultIsStrict(t *testing.T) {
	v := NewValidator()
	p := DefaultParameters()
	p.Exploration = PQ
	p.Workers = 4

	result := v.ValidateDetailed(p)
	require.True(t, result.Valid) // warnings never flip Valid
	require.Len(t, result.Warnings, 1)
	require.Equal(t, "Exploration", result.Warnings[0].Field)
}

func TestValidatorSoftModeSuppressesWorkerWarning(t *testing.T) {
	v := NewValidator().WithMode(SoftMode)
	p := DefaultParameters()
	p.Exploration = PQ
	p.Workers = 4

	result := v.ValidateDetailed(p)
	require.Empty(t, result.Warnings)
}

func TestValidatorWarnsOnMinimizeWithRealizabilityOnly(t *testing.T) {
	v := NewValidator()
	p := DefaultParameters()
	p.Minimize = true
	p.RealizabilityOnly = true

	result := v.ValidateDetailed(p)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, "Minimize", result.Warnings[0].Field)
}

func TestValidatorWarnsOnLabelsWithMinimize(t *testing.T) {
	v := NewValidator()
	p := DefaultParameters()
	p.Labels = true
	p.Minimize = true

	result := v.ValidateDetailed(p)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, "Labels", result.Warnings[0].Field)
}

func TestValidatorPropagatesFieldLevelError(t *testing.T) {
	v := NewValidator()
	p := DefaultParameters()
	p.Workers = 0

	require.ErrorIs(t, v.Validate(p), ErrInvalidWorkers)
}

func TestValidationErrorMessage(t *testing.T) {
	ve := ValidationError{Field: "Workers", Value: 0, Constraint: "must be >= 1", Severity: "error"}
	require.Contains(t, ve.Error(), "Workers")
	require.Contains(t, ve.Error(), "must be >= 1")
}
