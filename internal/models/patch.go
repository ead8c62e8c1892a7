package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field that distinguishes "not supplied" from "supplied as null".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a supplied, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a supplied Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

// UnmarshalJSON only runs for keys present in the document, which is what marks the field as supplied.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// ApplicationPatch is a partial update. Only fields with Set == true are applied.
type ApplicationPatch struct {
	Company     Optional[string] `json:"company,omitzero"`
	Position    Optional[string] `json:"position,omitzero"`
	Status      Optional[Status] `json:"status,omitzero"`
	Link        Optional[string] `json:"link,omitzero"`
	Notes       Optional[string] `json:"notes,omitzero"`
	AppliedDate Optional[Date]   `json:"applied_date,omitzero"`
	UpdatedDate Optional[Date]   `json:"updated_date,omitzero"`
}

// Empty reports whether the patch supplies no fields at all.
func (p ApplicationPatch) Empty() bool {
	return !p.Company.Set && !p.Position.Set && !p.Status.Set && !p.Link.Set &&
		!p.Notes.Set && !p.AppliedDate.Set && !p.UpdatedDate.Set
}

// TouchesIdentity reports whether the patch supplies company or position.
func (p ApplicationPatch) TouchesIdentity() bool {
	return p.Company.Set || p.Position.Set
}

// Effective returns the (company, position) pair a would have after p is applied.
func (p ApplicationPatch) Effective(a *Application) (company, position string) {
	company, position = a.Company, a.Position
	if p.Company.Set && p.Company.Value != nil {
		company = *p.Company.Value
	}
	if p.Position.Set && p.Position.Value != nil {
		position = *p.Position.Value
	}
	return company, position
}

// Apply merges the supplied fields into a. Required fields are never cleared by a null.
func (p ApplicationPatch) Apply(a *Application) {
	if p.Company.Set && p.Company.Value != nil {
		a.Company = *p.Company.Value
	}
	if p.Position.Set && p.Position.Value != nil {
		a.Position = *p.Position.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		a.Status = *p.Status.Value
	}
	if p.Link.Set {
		a.Link = cloneString(p.Link.Value)
	}
	if p.Notes.Set {
		a.Notes = cloneString(p.Notes.Value)
	}
	if p.AppliedDate.Set {
		a.AppliedDate = cloneDate(p.AppliedDate.Value)
	}
	if p.UpdatedDate.Set {
		a.UpdatedDate = cloneDate(p.UpdatedDate.Value)
	}
}

// Columns maps the supplied fields to column assignments for a store update.
// A null optional field maps to a nil value, which clears the column.
func (p ApplicationPatch) Columns() map[string]any {
	cols := make(map[string]any, 7)
	if p.Company.Set && p.Company.Value != nil {
		cols["company"] = *p.Company.Value
	}
	if p.Position.Set && p.Position.Value != nil {
		cols["position"] = *p.Position.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		cols["status"] = string(*p.Status.Value)
	}
	if p.Link.Set {
		cols["link"] = nullable(p.Link.Value)
	}
	if p.Notes.Set {
		cols["notes"] = nullable(p.Notes.Value)
	}
	if p.AppliedDate.Set {
		cols["applied_date"] = nullable(p.AppliedDate.Value)
	}
	if p.UpdatedDate.Set {
		cols["updated_date"] = nullable(p.UpdatedDate.Value)
	}
	return cols
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
