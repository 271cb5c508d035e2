package commands

import (
	"context"
	"testing"
	"time"

	"tdash/internal/dashboard"
	"tdash/internal/service"
	"tdash/internal/testutil"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ByID {
		t.Error("expected ByID to be false")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_ServerID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"#42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.ByID {
		t.Error("expected ByID to be true")
	}
	if ref.ID != 42 {
		t.Errorf("expected ID 42, got %d", ref.ID)
	}
}

func TestParseTaskRef_SeparatedServerID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"#", "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.ByID || ref.ID != 7 {
		t.Errorf("expected #7, got %+v", ref)
	}
}

func TestParseTaskRef_HashOnly_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"#"})
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{})
	if err == nil {
		t.Fatal("expected error for no args")
	}
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_InvalidRef_Error(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"abc"}, "invalid task reference: abc"},
		{[]string{"#x1"}, "invalid task reference: #x1"},
		{[]string{"#", "x"}, "invalid task reference: #"},
		{[]string{"a1"}, "invalid task reference: a1"},
		{[]string{"1.5"}, "invalid task reference: 1.5"},
	}
	for _, tt := range tests {
		_, err := ParseTaskRef(tt.args)
		if err == nil {
			t.Errorf("%v: expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 10, Description: "inbox only"})
	svc.AddTask(service.Task{ID: 11, Description: "tomorrow", Deadline: service.NewDateTime(now.AddDate(0, 0, 1))})

	d := dashboard.New(svc, dashboard.WithClock(func() time.Time { return now }))
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	tests := []struct {
		ref     TaskRef
		view    dashboard.View
		wantID  int64
		wantErr string
	}{
		{TaskRef{Num: 1}, dashboard.Inbox, 10, ""},
		{TaskRef{Num: 2}, dashboard.Inbox, 11, ""},
		{TaskRef{Num: 1}, dashboard.Upcoming, 11, ""},
		{TaskRef{Num: 2}, dashboard.Upcoming, 0, "task number out of range: 2"},
		{TaskRef{Num: 0}, dashboard.Inbox, 0, "task number out of range: 0"},
		{TaskRef{ID: 10, ByID: true}, dashboard.Upcoming, 10, ""},
		{TaskRef{ID: 99, ByID: true}, dashboard.Inbox, 0, "task not found: #99"},
	}
	for _, tt := range tests {
		task, err := tt.ref.Resolve(d, tt.view)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("%+v in %s: expected %q, got %v", tt.ref, tt.view, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%+v in %s: unexpected error: %v", tt.ref, tt.view, err)
			continue
		}
		if task.ID != tt.wantID {
			t.Errorf("%+v in %s: expected #%d, got #%d", tt.ref, tt.view, tt.wantID, task.ID)
		}
	}
}
