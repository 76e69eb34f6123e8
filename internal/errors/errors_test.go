package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorCategories(t *testing.T) {
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"config":       {err: NewConfigError("bad value"), want: Configuration},
		"prerequisite": {err: NewPrerequisiteError("no build root"), want: Prerequisite},
		"runtime":      {err: NewRuntimeError("comparison failed"), want: Runtime},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Category)
		})
	}
}

func TestWrapWithMessage(t *testing.T) {
	wrapped := WrapWithMessage(errors.New("boom"), Runtime, "doing work", "try again")
	require.NotNil(t, wrapped)

	assert.Equal(t, Runtime, wrapped.Category)
	assert.Equal(t, "doing work: boom", wrapped.Error())
	assert.Equal(t, []string{"try again"}, wrapped.Remediation)

	assert.Nil(t, WrapWithMessage(nil, Runtime, "doing work"))
}

func TestAsCLIError(t *testing.T) {
	cliErr := NewConfigError("bad value")
	assert.Equal(t, cliErr, AsCLIError(cliErr))
	assert.Nil(t, AsCLIError(errors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewConfigError("unknown package_list value",
		"Valid values: always, new, never")

	got := FormatErrorPlain(err)
	assert.Contains(t, got, "Error [Configuration Error]: unknown package_list value")
	assert.Contains(t, got, "To fix this:")
	assert.Contains(t, got, "• Valid values: always, new, never")

	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFormatErrorWithoutRemediation(t *testing.T) {
	got := FormatErrorPlain(NewRuntimeError("comparison failed"))
	assert.NotContains(t, got, "To fix this:")
}
