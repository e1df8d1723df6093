package websets

import (
	"github.com/robfig/cron/v3"

	"github.com/exa-labs/exa-go/pkg/exa"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// validateCadence rejects malformed cron expressions before they reach the
// API. The five-field standard format is accepted.
func validateCadence(cadence *Cadence) error {
	if cadence == nil || cadence.Cron == "" {
		return &exa.ValidationError{Param: "cadence.cron", Message: "a cron expression is required"}
	}

	if _, err := cronParser.Parse(cadence.Cron); err != nil {
		return &exa.ValidationError{Param: "cadence.cron", Value: cadence.Cron, Message: err.Error()}
	}

	return nil
}
