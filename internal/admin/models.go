package admin

import (
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/pagination"
)

// Tab is one of the three admin lists.
type Tab string

const (
	TabDoctors  Tab = "doctors"
	TabPatients Tab = "patients"
	TabAdmins   Tab = "admins"
)

var Tabs = []Tab{TabDoctors, TabPatients, TabAdmins}

var (
	ErrUnknownTab    = errors.New("unknown tab")
	ErrReadOnlyTab   = errors.New("admins tab is list and delete only")
	ErrNoModalOpen   = errors.New("no modal open")
	ErrRecordMissing = errors.New("record not in the current list")
)

// ParseTab accepts a tab name; empty selects doctors.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return TabDoctors, nil
	}
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Role is the backend namespace for the tab: the tab name minus its plural s.
func (t Tab) Role() entity.Role {
	switch t {
	case TabDoctors:
		return entity.RoleDoctor
	case TabPatients:
		return entity.RolePatient
	case TabAdmins:
		return entity.RoleAdmin
	}
	return ""
}

func (t Tab) Kind() entity.Kind {
	return entity.KindForRole(t.Role())
}

// CanAdd reports whether the tab offers create and edit.
func (t Tab) CanAdd() bool {
	return t == TabDoctors || t == TabPatients
}

// State of the list fetch.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// Modal identifies the open create/edit dialog.
type Modal string

const (
	ModalNone    Modal = ""
	ModalDoctor  Modal = "doctor"
	ModalPatient Modal = "patient"
)

// Row is one table line.
type Row struct {
	ID     entity.ID     `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Info   string        `json:"info"`
	Record entity.Record `json:"record"`
}

// ListResponse is the admin-dashboard screen.
type ListResponse struct {
	Success    bool            `json:"success"`
	Tab        Tab             `json:"tab"`
	State      State           `json:"state"`
	Search     string          `json:"search"`
	CanAdd     bool            `json:"canAdd"`
	Items      []Row           `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
}
