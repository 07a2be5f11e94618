package admin

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/WailSalutem-Health-Care/care-portal/internal/entity"
	"github.com/WailSalutem-Health-Care/care-portal/internal/http/respond"
	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-portal/internal/pagination"
	"github.com/WailSalutem-Health-Care/care-portal/internal/shape"
)

// BackendFunc returns the backend bound to the request's session.
type BackendFunc func(ctx context.Context) Backend

type Handler struct {
	backendFor BackendFunc
	publisher  messaging.PublisherInterface
}

func NewHandler(backendFor BackendFunc, publisher messaging.PublisherInterface) *Handler {
	return &Handler{backendFor: backendFor, publisher: publisher}
}

func (h *Handler) screen(r *http.Request) *Screen {
	return NewScreen(h.backendFor(r.Context()), h.publisher)
}

// List serves GET /admin-dashboard?tab=&search=&page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_tab", err.Error())
		return
	}

	scr := h.screen(r)
	if err := scr.SwitchTab(r.Context(), tab); err != nil {
		respond.Failure(w, r, err)
		return
	}
	scr.SetSearch(r.URL.Query().Get("search"))

	respond.JSON(w, http.StatusOK, listResponse(scr, pagination.ParseParams(r), ""))
}

// Create serves POST /admin-dashboard/{tab}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tab, ok := tabFromPath(w, r)
	if !ok {
		return
	}

	scr := h.screen(r)
	if err := scr.Open(tab); err != nil {
		respond.Error(w, http.StatusNotFound, "invalid_tab", err.Error())
		return
	}
	if err := scr.OpenAdd(); err != nil {
		respond.Error(w, http.StatusMethodNotAllowed, "read_only_tab", err.Error())
		return
	}
	if !decodeDraft(w, r, scr, tab) {
		return
	}
	if err := scr.Save(r.Context()); err != nil {
		respond.Failure(w, r, err)
		return
	}

	message := "Doctor Registered!"
	if tab == TabPatients {
		message = "Patient Added!"
	}
	respond.JSON(w, http.StatusCreated, listResponse(scr, pagination.ParseParams(r), message))
}

// Update serves PUT /admin-dashboard/{tab}/{id}. The body is applied on top
// of the listed record, so omitted fields keep their current values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tab, ok := tabFromPath(w, r)
	if !ok {
		return
	}
	id, err := entity.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "validation_error", "Invalid id")
		return
	}
	if !tab.CanAdd() {
		respond.Error(w, http.StatusMethodNotAllowed, "read_only_tab", ErrReadOnlyTab.Error())
		return
	}

	scr := h.screen(r)
	if err := scr.SwitchTab(r.Context(), tab); err != nil {
		respond.Failure(w, r, err)
		return
	}
	rec, found := scr.FindRecord(id)
	if !found {
		respond.Error(w, http.StatusNotFound, "not_found", ErrRecordMissing.Error())
		return
	}
	if err := scr.OpenEdit(rec); err != nil {
		respond.Error(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if !decodeDraft(w, r, scr, tab) {
		return
	}
	if err := scr.Save(r.Context()); err != nil {
		respond.Failure(w, r, err)
		return
	}

	message := "Doctor Updated!"
	if tab == TabPatients {
		message = "Patient Updated!"
	}
	respond.JSON(w, http.StatusOK, listResponse(scr, pagination.ParseParams(r), message))
}

// Delete serves DELETE /admin-dashboard/{tab}/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tab, ok := tabFromPath(w, r)
	if !ok {
		return
	}
	id, err := entity.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "validation_error", "Invalid id")
		return
	}

	scr := h.screen(r)
	if err := scr.Open(tab); err != nil {
		respond.Error(w, http.StatusNotFound, "invalid_tab", err.Error())
		return
	}
	if err := scr.Delete(r.Context(), id); err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse(scr, pagination.ParseParams(r), "Deleted"))
}

func tabFromPath(w http.ResponseWriter, r *http.Request) (Tab, bool) {
	tab, err := ParseTab(mux.Vars(r)["tab"])
	if err != nil {
		respond.Error(w, http.StatusNotFound, "invalid_tab", err.Error())
		return "", false
	}
	return tab, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request, scr *Screen, tab Tab) bool {
	var err error
	if tab == TabDoctors {
		scr.EditDoctor(func(d *shape.DoctorDraft) { err = respond.Decode(r, d) })
	} else {
		scr.EditPatient(func(p *shape.PatientDraft) { err = respond.Decode(r, p) })
	}
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return false
	}
	return true
}

func listResponse(scr *Screen, params pagination.Params, message string) ListResponse {
	snap := scr.Snapshot()
	page, meta := pagination.Slice(snap.Visible, params)
	resp := ListResponse{
		Success:    snap.Err == nil,
		Tab:        snap.Tab,
		State:      snap.State,
		Search:     snap.Search,
		CanAdd:     snap.Tab.CanAdd(),
		Items:      Rows(snap.Tab, page),
		Pagination: meta,
		Message:    message,
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}
