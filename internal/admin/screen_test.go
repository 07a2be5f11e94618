package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
	"github.com/WailSalutem-Health-Care/care-portal/internal/testutil"
	"github.com/WailSalutem-Health-Care/care-portal/internal/validation"
)

func TestFilterRecords_CaseInsensitive(t *testing.T) {
	recs := records(t, doctorsFixture)
	tests := []struct {
		term string
		want []string
	}{
		{"house", []string{"Gregory HOUSE"}},
		{"PPTH", []string{"Gregory HOUSE", "Lisa Cuddy"}},
		{"wIlSoN", []string{"James Wilson"}},
		{"", []string{"Gregory HOUSE", "Lisa Cuddy", "James Wilson"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		got := FilterRecords(recs, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("term %q: expected %d matches, got %d", tt.term, len(tt.want), len(got))
			continue
		}
		for i, rec := range got {
			if rec.Name() != tt.want[i] {
				t.Errorf("term %q: expected %s at %d, got %s", tt.term, tt.want[i], i, rec.Name())
			}
		}
	}
}

func TestScreen_SwitchTabLoadsAndResetsSearch(t *testing.T) {
	backend := &mockBackend{listFunc: func(ctx context.Context, role entity.Role) ([]entity.Record, error) {
		if role == entity.RolePatient {
			return records(t, patientsFixture), nil
		}
		return records(t, doctorsFixture), nil
	}}
	scr := NewScreen(backend, nil)

	if got := scr.Snapshot().State; got != StateIdle {
		t.Errorf("Expected idle before first load, got %s", got)
	}
	if err := scr.SwitchTab(context.Background(), TabDoctors); err != nil {
		t.Fatalf("SwitchTab failed: %v", err)
	}
	scr.SetSearch("cuddy")
	if n := len(scr.Visible()); n != 1 {
		t.Errorf("Expected 1 visible record, got %d", n)
	}

	if err := scr.SwitchTab(context.Background(), TabPatients); err != nil {
		t.Fatalf("SwitchTab failed: %v", err)
	}
	snap := scr.Snapshot()
	if snap.Search != "" {
		t.Errorf("Expected search reset on tab change, got %q", snap.Search)
	}
	if snap.State != StateLoaded || len(snap.Visible) != 1 {
		t.Errorf("Expected loaded patients, got %s with %d", snap.State, len(snap.Visible))
	}
	if backend.listCalls[1] != entity.RolePatient {
		t.Errorf("Expected patient list fetch, got %v", backend.listCalls)
	}
}

func TestScreen_FetchFailure(t *testing.T) {
	backend := &mockBackend{listFunc: func(ctx context.Context, role entity.Role) ([]entity.Record, error) {
		return nil, errors.New("down")
	}}
	scr := NewScreen(backend, nil)
	if err := scr.SwitchTab(context.Background(), TabAdmins); err == nil {
		t.Fatal("Expected error")
	}
	if snap := scr.Snapshot(); snap.State != StateFailed || snap.Err == nil {
		t.Errorf("Expected failed state, got %+v", snap)
	}
}

func TestScreen_StaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &mockBackend{listFunc: func(ctx context.Context, role entity.Role) ([]entity.Record, error) {
		if role == entity.RoleDoctor {
			close(started)
			<-release
			return records(t, doctorsFixture), nil
		}
		return records(t, patientsFixture), nil
	}}
	scr := NewScreen(backend, nil)

	done := make(chan error)
	go func() { done <- scr.SwitchTab(context.Background(), TabDoctors) }()
	<-started

	if err := scr.SwitchTab(context.Background(), TabPatients); err != nil {
		t.Fatalf("SwitchTab failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale SwitchTab returned %v", err)
	}

	snap := scr.Snapshot()
	if snap.Tab != TabPatients || len(snap.Records) != 1 {
		t.Errorf("Expected patients to survive the slow doctors fetch, got %s with %d records", snap.Tab, len(snap.Records))
	}
}

func TestScreen_CloseModalsResetsEverything(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	backend := &mockBackend{listFunc: func(ctx context.Context, role entity.Role) ([]entity.Record, error) {
		if role == entity.RolePatient {
			return records(t, patientsFixture), nil
		}
		return records(t, doctorsFixture), nil
	}}

	for _, tab := range []Tab{TabDoctors, TabPatients} {
		t.Run(string(tab), func(t *testing.T) {
			scr := NewScreen(backend, nil)
			scr.now = func() time.Time { return now }
			if err := scr.SwitchTab(context.Background(), tab); err != nil {
				t.Fatal(err)
			}
			if err := scr.OpenEdit(scr.Visible()[0]); err != nil {
				t.Fatalf("OpenEdit failed: %v", err)
			}
			scr.EditDoctor(func(d *shape.DoctorDraft) { d.FullName = "changed"; d.Specialty = "ENT" })
			scr.EditPatient(func(p *shape.PatientDraft) { p.Gender = "OTHER"; p.MedicalHistory = "x" })

			snap := scr.Snapshot()
			if !snap.EditMode || snap.EditID.IsZero() || snap.Modal == ModalNone {
				t.Fatalf("Expected edit mode with id, got %+v", snap)
			}

			scr.CloseModals()
			snap = scr.Snapshot()
			if snap.EditMode || !snap.EditID.IsZero() || snap.Modal != ModalNone {
				t.Errorf("Expected edit state reset, got mode=%v id=%d modal=%q", snap.EditMode, snap.EditID, snap.Modal)
			}
			if snap.DoctorDraft != shape.NewDoctorDraft() {
				t.Errorf("Expected default doctor draft, got %+v", snap.DoctorDraft)
			}
			if snap.PatientDraft != shape.NewPatientDraft(now) {
				t.Errorf("Expected default patient draft, got %+v", snap.PatientDraft)
			}
		})
	}
}

func TestScreen_AdminsTabIsReadOnly(t *testing.T) {
	scr := NewScreen(&mockBackend{}, nil)
	if err := scr.SwitchTab(context.Background(), TabAdmins); err != nil {
		t.Fatal(err)
	}
	if err := scr.OpenAdd(); !errors.Is(err, ErrReadOnlyTab) {
		t.Errorf("Expected ErrReadOnlyTab from OpenAdd, got %v", err)
	}
	if err := scr.OpenEdit(entity.Record{}); !errors.Is(err, ErrReadOnlyTab) {
		t.Errorf("Expected ErrReadOnlyTab from OpenEdit, got %v", err)
	}
}

func TestScreen_CreateDoctorRefetchesAndPublishes(t *testing.T) {
	var sent entity.DoctorAccount
	backend := &mockBackend{
		addDoctorFunc: func(ctx context.Context, payload interface{}) error {
			sent = payload.(entity.DoctorAccount)
			return nil
		},
	}
	pub := testutil.NewMockPublisher()
	scr := NewScreen(backend, pub)
	if err := scr.Open(TabDoctors); err != nil {
		t.Fatal(err)
	}
	if err := scr.OpenAdd(); err != nil {
		t.Fatal(err)
	}
	scr.EditDoctor(func(d *shape.DoctorDraft) {
		d.FullName = "Allison Cameron"
		d.ExperienceYears = "abc"
		d.Qualification = "MD"
		d.Designation = "Fellow"
		d.ContactNumber = "555"
		d.Email = "cameron@ppth.org"
		d.PasswordHash = "Abcdef1!"
	})

	if err := scr.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if sent.ExperienceYears != 0 || sent.Specialty != entity.DefaultSpecialty {
		t.Errorf("Unexpected payload %+v", sent)
	}
	if backend.listCount() != 1 {
		t.Errorf("Expected one re-fetch after save, got %d", backend.listCount())
	}
	if scr.Snapshot().Modal != ModalNone {
		t.Error("Expected modal closed after save")
	}
	pub.AssertEventCount(t, messaging.EventAccountRegistered, 1)
}

func TestScreen_SaveValidationKeepsModalOpen(t *testing.T) {
	backend := &mockBackend{}
	scr := NewScreen(backend, nil)
	scr.Open(TabPatients)
	scr.OpenAdd()
	scr.EditPatient(func(p *shape.PatientDraft) { p.Email = "bad" })

	err := scr.Save(context.Background())
	var fe validation.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FieldErrors, got %v", err)
	}
	if fe["email"] != validation.MsgInvalidEmail || fe["passwordHash"] == "" {
		t.Errorf("Unexpected field errors %v", fe)
	}
	if scr.Snapshot().Modal != ModalPatient {
		t.Error("Expected modal to stay open")
	}
	if backend.listCount() != 0 {
		t.Error("Expected no request on validation failure")
	}
}

func TestScreen_UpdatePatientUsesEditID(t *testing.T) {
	var gotID entity.ID
	backend := &mockBackend{
		listFunc: func(ctx context.Context, role entity.Role) ([]entity.Record, error) {
			return records(t, `[{"patientId":11,"fullName":"Jane Roe","email":"jane@roe.io","gender":"FEMALE","dateOfBirth":"1990-01-01","contactNumber":"1"}]`), nil
		},
		updatePatientFunc: func(ctx context.Context, id entity.ID, payload interface{}) error {
			gotID = id
			if upd := payload.(shape.PatientUpdate); upd.PatientID != 11 || upd.FullName != "Jane Doe" {
				t.Errorf("Unexpected update payload %+v", upd)
			}
			return nil
		},
	}
	scr := NewScreen(backend, nil)
	ctx := context.Background()
	scr.SwitchTab(ctx, TabPatients)
	rec, ok := scr.FindRecord(11)
	if !ok {
		t.Fatal("Expected record 11")
	}
	scr.OpenEdit(rec)
	scr.EditPatient(func(p *shape.PatientDraft) { p.FullName = "Jane Doe" })

	if err := scr.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if gotID != 11 {
		t.Errorf("Expected update of 11, got %d", gotID)
	}
	if backend.listCount() != 2 {
		t.Errorf("Expected initial fetch plus re-fetch, got %d", backend.listCount())
	}
}

func TestScreen_DeleteUsesTabRole(t *testing.T) {
	var gotRole entity.Role
	backend := &mockBackend{deleteFunc: func(ctx context.Context, role entity.Role, id entity.ID) error {
		gotRole = role
		return nil
	}}
	scr := NewScreen(backend, nil)
	scr.Open(TabAdmins)
	if err := scr.Delete(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if gotRole != entity.RoleAdmin {
		t.Errorf("Expected admin role, got %s", gotRole)
	}
	if backend.listCount() != 1 {
		t.Errorf("Expected re-fetch after delete")
	}
}
