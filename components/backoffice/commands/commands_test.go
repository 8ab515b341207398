package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

type stubResource struct {
	loads     int
	lastLoad  backoffice.Filter
	created   int
	editedID  string
	fields    []FieldValue
	cancelled int
	submitErr error
	removed   []string
	actions   []string
	fieldErr  error
}

func (s *stubResource) Name() string { return "coupon" }

func (s *stubResource) Load(_ context.Context, filter backoffice.Filter) error {
	s.loads++
	s.lastLoad = filter
	return nil
}

func (s *stubResource) OpenCreate(map[string]string) error {
	s.created++
	return nil
}

func (s *stubResource) OpenEditID(_ context.Context, id string) error {
	s.editedID = id
	return nil
}

func (s *stubResource) SetField(name, raw string) error {
	if s.fieldErr != nil {
		return s.fieldErr
	}
	s.fields = append(s.fields, FieldValue{Name: name, Value: raw})
	return nil
}

func (s *stubResource) SubmitDraft(context.Context) (any, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return map[string]any{"id": 7}, nil
}

func (s *stubResource) Cancel() error {
	s.cancelled++
	return nil
}

func (s *stubResource) RemoveID(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubResource) DoID(_ context.Context, id, action string, _ backoffice.Payload) (backoffice.ActionResult, error) {
	s.actions = append(s.actions, id+":"+action)
	return backoffice.ActionResult{"sent_count": 3.0}, nil
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func resolverFor(res *stubResource) Resolver {
	return ResolverFunc(func(key string) (Resource, error) {
		if key != "coupons" {
			return nil, errors.New("unknown resource " + key)
		}
		return res, nil
	})
}

func TestLoadCommand(t *testing.T) {
	res := &stubResource{}
	telemetry := &stubTelemetry{}
	cmd := NewLoadCommand(resolverFor(res), telemetry)
	if err := cmd.Execute(context.Background(), LoadInput{Resource: "coupons", Filter: backoffice.Filter{"status": "active"}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if res.loads != 1 || res.lastLoad["status"] != "active" {
		t.Fatalf("expected filtered load, got %d %v", res.loads, res.lastLoad)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "backoffice.command.load" {
		t.Fatalf("unexpected telemetry %v", telemetry.events)
	}
	if err := cmd.Execute(context.Background(), LoadInput{Resource: "invoices"}); err == nil {
		t.Fatalf("expected unknown resource error")
	}
}

func TestSaveCommandCreatesInOrder(t *testing.T) {
	res := &stubResource{}
	var saved any
	cmd := NewSaveCommand(resolverFor(res), nil, func(record any) { saved = record })
	err := cmd.Execute(context.Background(), SaveInput{
		Resource: "coupons",
		Fields: []FieldValue{
			{Name: "discount_type", Value: "fixed"},
			{Name: "discount_value", Value: "50"},
		},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if res.created != 1 || res.editedID != "" {
		t.Fatalf("expected create dialog")
	}
	if len(res.fields) != 2 || res.fields[0].Name != "discount_type" {
		t.Fatalf("fields applied out of order: %v", res.fields)
	}
	if saved == nil {
		t.Fatalf("expected saved record callback")
	}
}

func TestSaveCommandEditsAndKeepsDraftOnFailure(t *testing.T) {
	res := &stubResource{submitErr: errors.New("code already exists")}
	cmd := NewSaveCommand(resolverFor(res), nil, nil)
	err := cmd.Execute(context.Background(), SaveInput{Resource: "coupons", ID: "4", Fields: []FieldValue{{Name: "code", Value: "X"}}})
	if err == nil {
		t.Fatalf("expected submit error")
	}
	if res.editedID != "4" {
		t.Fatalf("expected edit of 4, got %q", res.editedID)
	}
	if res.cancelled != 0 {
		t.Fatalf("draft should stay open after a failed submit")
	}
}

func TestSaveCommandCancelsOnBadField(t *testing.T) {
	res := &stubResource{fieldErr: errors.New("no field")}
	cmd := NewSaveCommand(resolverFor(res), nil, nil)
	if err := cmd.Execute(context.Background(), SaveInput{Resource: "coupons", Fields: []FieldValue{{Name: "bogus", Value: "1"}}}); err == nil {
		t.Fatalf("expected field error")
	}
	if res.cancelled != 1 {
		t.Fatalf("expected dialog to be cancelled")
	}
}

func TestRemoveCommand(t *testing.T) {
	res := &stubResource{}
	cmd := NewRemoveCommand(resolverFor(res), nil)
	if err := cmd.Execute(context.Background(), RemoveInput{Resource: "coupons"}); err == nil {
		t.Fatalf("expected missing id error")
	}
	if err := cmd.Execute(context.Background(), RemoveInput{Resource: "coupons", ID: "3"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(res.removed) != 1 || res.removed[0] != "3" {
		t.Fatalf("expected removal of 3, got %v", res.removed)
	}
}

func TestActionCommand(t *testing.T) {
	res := &stubResource{}
	var result backoffice.ActionResult
	cmd := NewActionCommand(resolverFor(res), nil, func(r backoffice.ActionResult) { result = r })
	if err := cmd.Execute(context.Background(), ActionInput{Resource: "coupons", ID: "1", Action: "deactivate"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(res.actions) != 1 || res.actions[0] != "1:deactivate" {
		t.Fatalf("unexpected actions %v", res.actions)
	}
	if result.Int("sent_count") != 3 {
		t.Fatalf("expected result callback, got %v", result)
	}
	if err := cmd.Execute(context.Background(), ActionInput{Resource: "coupons", ID: "1"}); err == nil {
		t.Fatalf("expected missing action error")
	}
}

func TestCommandsAcceptNilTelemetry(t *testing.T) {
	res := &stubResource{}
	if err := NewLoadCommand(resolverFor(res), nil).Execute(context.Background(), LoadInput{Resource: "coupons"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := NewRemoveCommand(resolverFor(res), nil).Execute(context.Background(), RemoveInput{Resource: "coupons", ID: "1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if res.loads != 1 {
		t.Fatalf("expected one load, got %d", res.loads)
	}
}
