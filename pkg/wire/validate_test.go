package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	allowed := map[string]Kind{
		"num_results":     Number,
		"include_domains": List,
		"text":            Bool | Map,
		"query":           String,
	}

	err := Validate(map[string]any{
		"num_results":     5,
		"include_domains": []string{"example.com"},
		"text":            map[string]any{"max_characters": 200},
		"query":           "q",
	}, allowed)

	require.NoError(t, err)
}

func TestValidateUnknownOption(t *testing.T) {
	err := Validate(map[string]any{"num_result": 5}, map[string]Kind{"num_results": Number})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "num_result", verr.Param)
}

func TestValidateWrongShape(t *testing.T) {
	err := Validate(map[string]any{"num_results": "five"}, map[string]Kind{"num_results": Number})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "num_results", verr.Param)
	require.Equal(t, "five", verr.Value)
	require.Contains(t, verr.Error(), "five")
}

func TestValidateNilValuePasses(t *testing.T) {
	err := Validate(map[string]any{"num_results": nil}, map[string]Kind{"num_results": Number})

	require.NoError(t, err)
	require.False(t, errors.Is(err, &ValidationError{}))
}
