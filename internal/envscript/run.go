package envscript

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/inoxlang/hypenv/internal/hypenv"
	"github.com/inoxlang/hypenv/internal/memds"
	"github.com/inoxlang/hypenv/internal/utils"
	"github.com/rs/zerolog"
)

// A Report describes the state of a session after a run.
type Report struct {
	SessionID      string         `json:"session"`
	StepCount      int            `json:"stepCount"`
	Intuitionistic []string       `json:"intuitionistic"`
	Spatial        []string       `json:"spatial"`
	Handles        []HandleReport `json:"handles"`
	DroppedHandles []string       `json:"droppedHandles"`
}

type HandleReport struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Index  int    `json:"index"`
	Item   string `json:"item"`
}

func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Run validates the scenario and applies its steps to a new session. The returned report is not nil if the
// scenario is valid, even if a step failed.
func Run(scenario *Scenario, logger zerolog.Logger) (*Report, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	store := hypenv.NewEnvs(memds.EnvOf(scenario.Intuitionistic...), memds.EnvOf(scenario.Spatial...))
	session := NewSession(store, logger)

	session.logger.Debug().Int("stepCount", len(scenario.Steps)).Msg("run scenario")

	for i, step := range scenario.Steps {
		if err := session.ApplyStep(step); err != nil {
			session.logger.Debug().Err(err).Int("step", i).Str("op", step.Op).Msg("step failed")
			return session.Report(i), fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		session.logger.Debug().Int("step", i).Str("op", step.Op).Msg("step applied")
	}

	return session.Report(len(scenario.Steps)), nil
}

// ApplyStep applies a single step, panics caused by invalid operations on the store are turned into errors.
func (s *Session) ApplyStep(step Step) (finalErr error) {
	defer func() {
		if v := recover(); v != nil {
			finalErr = utils.ConvertPanicValueToError(v)
		}
	}()

	if err := step.validate(); err != nil {
		return err
	}

	region := hypenv.Spatial
	if step.Region != "" {
		region = utils.Must(hypenv.ParseRegion(step.Region))
	}

	switch step.Op {
	case OP_BIND:
		return s.Bind(step.Name, region, *step.Index)
	case OP_APPEND:
		s.Append(region, *step.Item, step.As)
		return nil
	case OP_DELETE:
		return s.Delete(step.Handle, step.RemoveIntuitionistic)
	case OP_REPLACE:
		return s.Replace(step.Handle, step.RemoveIntuitionistic, region, *step.Item, step.As)
	case OP_SPLIT:
		return s.Split(memds.NewMask(step.Mask), step.side())
	case OP_CLEAR_SPATIAL:
		s.ClearSpatial()
		return nil
	case OP_EXPECT:
		return s.expect(step)
	case OP_EXPECT_ENV:
		return s.expectEnv(step)
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
}

func (s *Session) expect(step Step) error {
	index, err := s.getHandle(step.Handle)
	if err != nil {
		return err
	}
	_, item := s.store.Lookup(index)

	if step.Region != "" {
		expectedRegion := utils.Must(hypenv.ParseRegion(step.Region))
		if _, err := s.store.LookupIn(expectedRegion, index); err != nil {
			return fmt.Errorf("%w: handle %q: %w", ErrExpectationFailed, step.Handle, err)
		}
	}

	if step.Index != nil && index.Value() != *step.Index {
		return fmt.Errorf("%w: handle %q has index %d, not %d", ErrExpectationFailed, step.Handle, index.Value(), *step.Index)
	}

	if step.Item != nil && item != *step.Item {
		return fmt.Errorf("%w: handle %q points to %q, not %q", ErrExpectationFailed, step.Handle, item, *step.Item)
	}
	return nil
}

func (s *Session) expectEnv(step Step) error {
	check := func(region hypenv.Region, expected *[]string) error {
		if expected == nil {
			return nil
		}
		actual := s.store.Region(region).ToSlice()
		if !slices.Equal(actual, *expected) {
			return fmt.Errorf("%w: %s region is %v, not %v", ErrExpectationFailed, region, actual, *expected)
		}
		return nil
	}

	return utils.CombineErrors(
		check(hypenv.Intuitionistic, step.ExpectedIntuitionistic),
		check(hypenv.Spatial, step.ExpectedSpatial),
	)
}

// Report returns a report of the current state of the session.
func (s *Session) Report(stepCount int) *Report {
	report := &Report{
		SessionID:      s.id.String(),
		StepCount:      stepCount,
		Intuitionistic: s.store.Intuitionistic().ToSlice(),
		Spatial:        s.store.Spatial().ToSlice(),
		Handles:        []HandleReport{},
		DroppedHandles: utils.EmptySliceIfNil(s.DroppedHandles()),
	}

	s.handles.Scan(func(name string, index hypenv.Index) bool {
		region, item := s.store.Lookup(index)
		report.Handles = append(report.Handles, HandleReport{
			Name:   name,
			Region: region.String(),
			Index:  index.Value(),
			Item:   item,
		})
		return true
	})

	return report
}
