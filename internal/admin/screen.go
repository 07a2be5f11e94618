package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

// Backend is the slice of the REST API the admin screen uses.
type Backend interface {
	ListAccounts(ctx context.Context, role entity.Role) ([]entity.Record, error)
	AdminAddDoctor(ctx context.Context, payload interface{}) error
	AdminAddPatient(ctx context.Context, payload interface{}) error
	UpdateDoctor(ctx context.Context, id entity.ID, payload interface{}) error
	UpdatePatient(ctx context.Context, id entity.ID, payload interface{}) error
	DeleteAccount(ctx context.Context, role entity.Role, id entity.ID) error
}

// Screen is the admin dashboard state machine. A tab switch or a successful
// mutation moves it through loading to loaded with a full re-fetch.
//
// Each fetch takes a generation number; a result is applied only if no
// newer fetch started in the meantime, so a slow response for a previous
// tab never overwrites the current one.
type Screen struct {
	backend   Backend
	publisher messaging.PublisherInterface
	now       func() time.Time

	mu         sync.Mutex
	tab        Tab
	state      State
	records    []entity.Record
	err        error
	search     string
	generation uint64

	modal        Modal
	editMode     bool
	editID       entity.ID
	doctorDraft  shape.DoctorDraft
	patientDraft shape.PatientDraft
}

func NewScreen(backend Backend, publisher messaging.PublisherInterface) *Screen {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	s := &Screen{
		backend:   backend,
		publisher: publisher,
		now:       time.Now,
		tab:       TabDoctors,
		state:     StateIdle,
	}
	s.resetModals()
	return s
}

// Snapshot is a consistent copy of the screen state.
type Snapshot struct {
	Tab          Tab
	State        State
	Search       string
	Records      []entity.Record
	Visible      []entity.Record
	Err          error
	Modal        Modal
	EditMode     bool
	EditID       entity.ID
	DoctorDraft  shape.DoctorDraft
	PatientDraft shape.PatientDraft
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tab:          s.tab,
		State:        s.state,
		Search:       s.search,
		Records:      append([]entity.Record(nil), s.records...),
		Visible:      FilterRecords(s.records, s.search),
		Err:          s.err,
		Modal:        s.modal,
		EditMode:     s.editMode,
		EditID:       s.editID,
		DoctorDraft:  s.doctorDraft,
		PatientDraft: s.patientDraft,
	}
}

// Visible returns the records matching the current search.
func (s *Screen) Visible() []entity.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterRecords(s.records, s.search)
}

// SetSearch changes the filter; no request is made.
func (s *Screen) SetSearch(term string) {
	s.mu.Lock()
	s.search = term
	s.mu.Unlock()
}

// SwitchTab selects a tab, clears the search and fetches its list.
func (s *Screen) SwitchTab(ctx context.Context, tab Tab) error {
	if tab.Role() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	s.mu.Lock()
	s.tab = tab
	s.search = ""
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh re-fetches the current tab.
func (s *Screen) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	tab := s.tab
	s.state = StateLoading
	s.mu.Unlock()

	records, err := s.backend.ListAccounts(ctx, tab.Role())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		log.Debug().Str("tab", string(tab)).Msg("discarding superseded admin list")
		return nil
	}
	if err != nil {
		s.state = StateFailed
		s.records = nil
		s.err = err
		return fmt.Errorf("failed to list %s: %w", tab, err)
	}
	s.state = StateLoaded
	s.records = records
	s.err = nil
	return nil
}

// OpenAdd opens the create modal of the current tab with default drafts.
func (s *Screen) OpenAdd() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tab.CanAdd() {
		return ErrReadOnlyTab
	}
	s.resetModals()
	s.modal = modalFor(s.tab)
	return nil
}

// OpenEdit enters edit mode for rec, remembering its id and prefilling the
// draft from it.
func (s *Screen) OpenEdit(rec entity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tab.CanAdd() {
		return ErrReadOnlyTab
	}
	id, ok := rec.ID(s.tab.Kind())
	if !ok {
		return ErrRecordMissing
	}
	s.resetModals()
	s.editMode = true
	s.editID = id
	s.modal = modalFor(s.tab)
	if s.tab == TabDoctors {
		s.doctorDraft = shape.DoctorDraftFromRecord(rec)
	} else {
		s.patientDraft = shape.PatientDraftFromRecord(rec)
	}
	return nil
}

// FindRecord looks up a listed record by its canonical id.
func (s *Screen) FindRecord(id entity.ID) (entity.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rid, ok := rec.ID(s.tab.Kind()); ok && rid == id {
			return rec, true
		}
	}
	return nil, false
}

// EditDoctor applies fn to the doctor draft.
func (s *Screen) EditDoctor(fn func(*shape.DoctorDraft)) {
	s.mu.Lock()
	fn(&s.doctorDraft)
	s.mu.Unlock()
}

// EditPatient applies fn to the patient draft.
func (s *Screen) EditPatient(fn func(*shape.PatientDraft)) {
	s.mu.Lock()
	fn(&s.patientDraft)
	s.mu.Unlock()
}

// CloseModals closes any modal and resets edit mode, edit id and both
// drafts to their defaults.
func (s *Screen) CloseModals() {
	s.mu.Lock()
	s.resetModals()
	s.mu.Unlock()
}

func (s *Screen) resetModals() {
	s.modal = ModalNone
	s.editMode = false
	s.editID = 0
	s.doctorDraft = shape.NewDoctorDraft()
	s.patientDraft = shape.NewPatientDraft(s.now())
}

// Save submits the open modal: create or update depending on edit mode.
// On success the modals close and the list is re-fetched; on failure the
// modal stays open with its draft.
func (s *Screen) Save(ctx context.Context) error {
	s.mu.Lock()
	modal, editMode, editID := s.modal, s.editMode, s.editID
	doctor, patient := s.doctorDraft, s.patientDraft
	s.mu.Unlock()

	var err error
	var email string
	switch modal {
	case ModalDoctor:
		email = doctor.Email
		err = s.saveDoctor(ctx, doctor, editMode, editID)
	case ModalPatient:
		email = patient.Email
		err = s.savePatient(ctx, patient, editMode, editID)
	default:
		return ErrNoModalOpen
	}
	if err != nil {
		return err
	}

	if !editMode {
		role := entity.RoleDoctor
		if modal == ModalPatient {
			role = entity.RolePatient
		}
		event := messaging.AccountRegisteredEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventAccountRegistered),
			Data:      messaging.AccountRegisteredData{Role: string(role), Email: email, CreatedBy: "admin"},
		}
		if perr := s.publisher.Publish(ctx, messaging.EventAccountRegistered, event); perr != nil {
			log.Warn().Err(perr).Msg("failed to publish account.registered")
		}
	}

	s.CloseModals()
	if rerr := s.Refresh(ctx); rerr != nil {
		log.Warn().Err(rerr).Msg("re-fetch after save failed")
	}
	return nil
}

func (s *Screen) saveDoctor(ctx context.Context, d shape.DoctorDraft, editMode bool, id entity.ID) error {
	if editMode {
		payload, err := d.UpdatePayload(id)
		if err != nil {
			return err
		}
		return s.backend.UpdateDoctor(ctx, id, payload)
	}
	payload, err := d.CreatePayload()
	if err != nil {
		return err
	}
	return s.backend.AdminAddDoctor(ctx, payload)
}

func (s *Screen) savePatient(ctx context.Context, p shape.PatientDraft, editMode bool, id entity.ID) error {
	if editMode {
		payload, err := p.UpdatePayload(id)
		if err != nil {
			return err
		}
		return s.backend.UpdatePatient(ctx, id, payload)
	}
	payload, err := p.CreatePayload()
	if err != nil {
		return err
	}
	return s.backend.AdminAddPatient(ctx, payload)
}

// Delete removes an account of the current tab and re-fetches.
func (s *Screen) Delete(ctx context.Context, id entity.ID) error {
	s.mu.Lock()
	tab := s.tab
	s.mu.Unlock()

	if err := s.backend.DeleteAccount(ctx, tab.Role(), id); err != nil {
		return err
	}
	log.Info().Str("role", string(tab.Role())).Str("id", id.String()).Msg("account deleted")
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("re-fetch after delete failed")
	}
	return nil
}

func modalFor(tab Tab) Modal {
	if tab == TabDoctors {
		return ModalDoctor
	}
	return ModalPatient
}

// Open positions the screen on tab without fetching. Callers that only
// mutate use it; the mutation itself triggers the re-fetch.
func (s *Screen) Open(tab Tab) error {
	if tab.Role() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	s.mu.Lock()
	s.tab = tab
	s.search = ""
	s.mu.Unlock()
	return nil
}
