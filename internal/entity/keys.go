package entity

import (
	"encoding/json"
	"strings"
)

// Kind selects which identifier keys apply to a backend object.
type Kind string

const (
	KindDoctor  Kind = "doctor"
	KindPatient Kind = "patient"
	KindAdmin   Kind = "admin"
	// KindAccount is used when the object could be any of the account
	// entities, e.g. a login response or a mixed admin listing.
	KindAccount Kind = "account"
)

// idKeys is the identifier lookup table. Keys are tried in order and the
// first present, non-empty, non-zero value wins.
var idKeys = map[Kind][]string{
	KindDoctor:  {"doctorID", "id"},
	KindPatient: {"patientId", "id"},
	KindAdmin:   {"id"},
	KindAccount: {"doctorID", "patientId", "id"},
}

// IDKeys returns the lookup order for kind. Unknown kinds fall back to the
// account order.
func IDKeys(kind Kind) []string {
	if keys, ok := idKeys[kind]; ok {
		return keys
	}
	return idKeys[KindAccount]
}

// KindForRole maps a role to the entity kind of its account.
func KindForRole(r Role) Kind {
	switch r {
	case RoleDoctor:
		return KindDoctor
	case RolePatient:
		return KindPatient
	case RoleAdmin:
		return KindAdmin
	}
	return KindAccount
}

// ResolveID walks the lookup table for kind over raw JSON fields.
func ResolveID(kind Kind, fields map[string]json.RawMessage) (ID, bool) {
	for _, key := range IDKeys(kind) {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var id ID
		if err := id.UnmarshalJSON(raw); err != nil {
			continue
		}
		if !id.IsZero() {
			return id, true
		}
	}
	return 0, false
}

// Record is a backend object kept in its raw shape. The admin screen lists
// doctors, patients and admins through the same table, so it works on
// records rather than typed structs.
type Record map[string]json.RawMessage

// ID resolves the record's canonical identifier.
func (r Record) ID(kind Kind) (ID, bool) {
	return ResolveID(kind, r)
}

// String returns a string field, or "" when absent or not a string.
// Numbers are rendered in their JSON form.
func (r Record) String(key string) string {
	raw, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Name is the display name: fullName for doctors and patients, name for admins.
func (r Record) Name() string {
	if v := r.String("fullName"); v != "" {
		return v
	}
	return r.String("name")
}

func (r Record) Email() string {
	return r.String("email")
}

// Info is the third column of the admin table.
func (r Record) Info() string {
	if v := r.String("specialty"); v != "" {
		return v
	}
	if v := r.String("gender"); v != "" {
		return v
	}
	return "Admin"
}

// Matches reports whether term is a case-insensitive substring of the
// record's name or email. An empty term matches everything.
func (r Record) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.Name()), term) ||
		strings.Contains(strings.ToLower(r.Email()), term)
}

// Decode unmarshals the record into a typed value.
func (r Record) Decode(v interface{}) error {
	b, err := json.Marshal(map[string]json.RawMessage(r))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
