package admin

import (
	"context"
	"errors"
	"strconv"

	"github.com/goliatone/go-backoffice/components/backoffice"
	"github.com/goliatone/go-backoffice/pkg/billing"
)

// StaffStatsSource returns the roster summary.
type StaffStatsSource interface {
	StaffStats(ctx context.Context) (billing.StaffStats, error)
}

// StaffScreen manages internal operator accounts.
type StaffScreen struct {
	*backoffice.Controller[billing.StaffMember, int]
	stats StaffStatsSource
	deps  Deps
}

// NewStaffScreen wires the staff controller. stats may be nil when the
// summary is not needed.
func NewStaffScreen(remote backoffice.Remote[billing.StaffMember, int], stats StaffStatsSource, deps Deps) (*StaffScreen, error) {
	deps = deps.normalize()
	opts := controllerOptions(deps, "staff member", "staff", remote, StaffSchema())
	opts.DeletePrompt = "Remove this staff member? They lose back-office access immediately."
	ctrl, err := backoffice.NewController(opts)
	if err != nil {
		return nil, err
	}
	return &StaffScreen{Controller: ctrl, stats: stats, deps: deps}, nil
}

// LoadType lists staff of one type; an empty type lists everyone.
func (s *StaffScreen) LoadType(ctx context.Context, staffType string) error {
	if staffType == "" {
		return s.Load(ctx, backoffice.Filter{})
	}
	return s.Load(ctx, backoffice.Filter{"type": staffType})
}

// Stats fetches the roster summary. Failures are reported on the feedback
// channel like any other load.
func (s *StaffScreen) Stats(ctx context.Context) (billing.StaffStats, error) {
	if s.stats == nil {
		return billing.StaffStats{}, errors.New("admin: staff stats source is not configured")
	}
	stats, err := s.stats.StaffStats(ctx)
	if err != nil {
		s.Feedback().Notify(backoffice.UserMessage(err, "Failed to load staff statistics"), backoffice.SeverityError)
		return billing.StaffStats{}, err
	}
	return stats, nil
}

// Entry exposes the screen to the CLI.
func (s *StaffScreen) Entry() Entry {
	return newEntry("staff", s.Controller, parseIntID, s.table, true)
}

func (s *StaffScreen) table(items []billing.StaffMember) Table {
	t := Table{Columns: []string{"ID", "NAME", "EMAIL", "TYPE", "COMMISSION", "JOINED", "STATUS"}}
	for _, m := range items {
		status := "inactive"
		if m.IsActive {
			status = "active"
		}
		commission := "-"
		if m.StaffType == billing.StaffSales {
			commission = strconv.FormatFloat(m.CommissionRate, 'f', -1, 64) + "%"
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.ID), m.FullName(), m.Email, m.StaffType, commission,
			cellTime(m.DateJoined, s.deps.Location), status,
		})
		t.Status = append(t.Status, status)
	}
	return t
}
