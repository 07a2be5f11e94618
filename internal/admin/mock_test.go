package admin

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
)

type mockBackend struct {
	mu sync.Mutex

	listFunc          func(ctx context.Context, role entity.Role) ([]entity.Record, error)
	addDoctorFunc     func(ctx context.Context, payload interface{}) error
	addPatientFunc    func(ctx context.Context, payload interface{}) error
	updateDoctorFunc  func(ctx context.Context, id entity.ID, payload interface{}) error
	updatePatientFunc func(ctx context.Context, id entity.ID, payload interface{}) error
	deleteFunc        func(ctx context.Context, role entity.Role, id entity.ID) error

	listCalls []entity.Role
}

func (m *mockBackend) ListAccounts(ctx context.Context, role entity.Role) ([]entity.Record, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, role)
	m.mu.Unlock()
	if m.listFunc != nil {
		return m.listFunc(ctx, role)
	}
	return nil, nil
}

func (m *mockBackend) AdminAddDoctor(ctx context.Context, payload interface{}) error {
	if m.addDoctorFunc != nil {
		return m.addDoctorFunc(ctx, payload)
	}
	return nil
}

func (m *mockBackend) AdminAddPatient(ctx context.Context, payload interface{}) error {
	if m.addPatientFunc != nil {
		return m.addPatientFunc(ctx, payload)
	}
	return nil
}

func (m *mockBackend) UpdateDoctor(ctx context.Context, id entity.ID, payload interface{}) error {
	if m.updateDoctorFunc != nil {
		return m.updateDoctorFunc(ctx, id, payload)
	}
	return nil
}

func (m *mockBackend) UpdatePatient(ctx context.Context, id entity.ID, payload interface{}) error {
	if m.updatePatientFunc != nil {
		return m.updatePatientFunc(ctx, id, payload)
	}
	return nil
}

func (m *mockBackend) DeleteAccount(ctx context.Context, role entity.Role, id entity.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, role, id)
	}
	return nil
}

func (m *mockBackend) listCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listCalls)
}

func records(t *testing.T, doc string) []entity.Record {
	t.Helper()
	var out []entity.Record
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return out
}

const doctorsFixture = `[
	{"doctorID":1,"fullName":"Gregory HOUSE","email":"house@PPTH.org","specialty":"Neurology","experienceYears":20},
	{"doctorID":2,"fullName":"Lisa Cuddy","email":"cuddy@ppth.org","specialty":"Endocrinology"},
	{"doctorID":3,"fullName":"James Wilson","email":"wilson@oncology.org","specialty":"Oncology"}
]`

const patientsFixture = `[
	{"patientId":11,"fullName":"Jane Roe","email":"jane@roe.io","gender":"FEMALE"}
]`
