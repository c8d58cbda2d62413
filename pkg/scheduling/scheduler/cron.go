package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
	"github.com/vnykmshr/schedexec/pkg/common/validation"
	"github.com/vnykmshr/schedexec/pkg/scheduling/workerpool"
)

// newCronParser accepts the standard five-field format, an optional leading
// seconds field, and descriptors such as "@hourly" or "@every 5s".
// Examples:
//
//	"0 */2 * * *"     - Every 2 hours
//	"30 14 * * 1-5"   - 2:30 PM on weekdays
//	"*/10 * * * * *"  - Every 10 seconds
//	"@daily"          - Every day at midnight
func newCronParser() cron.Parser {
	return cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// ScheduleCron schedules task on the deadlines of cronExpr, evaluated in the
// scheduler's location. Each re-arm is computed from the previous deadline,
// so a slow dispatch does not skip an occurrence.
func (s *scheduler) ScheduleCron(cronExpr string, task workerpool.Task) (TaskID, error) {
	if err := s.checkRunning(); err != nil {
		return 0, err
	}
	if err := validation.ValidateNotNil("scheduler", "task", task); err != nil {
		return 0, err
	}
	schedule, err := s.parseCron(cronExpr)
	if err != nil {
		return 0, err
	}

	// Unsatisfiable expressions such as "0 0 30 2 *" parse but never fire.
	if schedule.Next(s.now().In(s.location)).IsZero() {
		return 0, gferrors.NewValidationError("scheduler", "cronExpr", cronExpr, "schedule has no future occurrence")
	}

	return s.insert(&entry{
		task:     task,
		cronExpr: cronExpr,
		cron:     schedule,
	}, func(now time.Time) time.Time {
		return schedule.Next(now.In(s.location))
	})
}

func (s *scheduler) parseCron(cronExpr string) (cron.Schedule, error) {
	if err := validation.ValidateNotEmpty("scheduler", "cronExpr", cronExpr); err != nil {
		return nil, err
	}
	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return nil, gferrors.NewValidationError("scheduler", "cronExpr", cronExpr, err.Error()).
			WithHint(`use "min hour dom month dow", an optional leading seconds field, or a descriptor like "@hourly"`)
	}
	return schedule, nil
}

// ValidateCronExpression reports whether cronExpr is accepted by ScheduleCron.
func ValidateCronExpression(cronExpr string) error {
	if err := validation.ValidateNotEmpty("scheduler", "cronExpr", cronExpr); err != nil {
		return err
	}
	if _, err := newCronParser().Parse(cronExpr); err != nil {
		return gferrors.NewValidationError("scheduler", "cronExpr", cronExpr, err.Error())
	}
	return nil
}

// NextCronRuns returns the next n deadlines of cronExpr after from.
func NextCronRuns(cronExpr string, from time.Time, n int) ([]time.Time, error) {
	if err := ValidateCronExpression(cronExpr); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("scheduler", "n", n); err != nil {
		return nil, err
	}

	schedule, _ := newCronParser().Parse(cronExpr)
	runs := make([]time.Time, 0, n)
	current := from
	for i := 0; i < n; i++ {
		current = schedule.Next(current)
		if current.IsZero() {
			break
		}
		runs = append(runs, current)
	}
	return runs, nil
}
