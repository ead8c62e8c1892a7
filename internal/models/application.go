package models

// Status is the closed set of stages an application can be in.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// ParseStatus returns the Status named by s, or false if s is not one of the four stages.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func (s Status) String() string { return string(s) }

// Application is a single tracked job application.
// (company, position) is unique across the table.
type Application struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Company     string  `gorm:"not null;uniqueIndex:idx_applications_company_position,priority:1" json:"company"`
	Position    string  `gorm:"not null;uniqueIndex:idx_applications_company_position,priority:2" json:"position"`
	Status      Status  `gorm:"type:varchar(16);not null;check:chk_applications_status,status IN ('applied','interview','offer','rejected')" json:"status"`
	Link        *string `json:"link"`
	Notes       *string `gorm:"type:text" json:"notes"`
	AppliedDate *Date   `gorm:"type:date" json:"applied_date"`
	UpdatedDate *Date   `gorm:"type:date" json:"updated_date"`
}

func (Application) TableName() string {
	return "job_applications"
}

// Clone returns a deep copy, so callers can't reach into stored state through pointer fields.
func (a *Application) Clone() *Application {
	c := *a
	c.Link = cloneString(a.Link)
	c.Notes = cloneString(a.Notes)
	c.AppliedDate = cloneDate(a.AppliedDate)
	c.UpdatedDate = cloneDate(a.UpdatedDate)
	return &c
}

// NewApplication holds the fields of a record that does not have an id yet.
type NewApplication struct {
	Company     string  `validate:"required,notblank"`
	Position    string  `validate:"required,notblank"`
	Status      Status  `validate:"required,status"`
	Link        *string
	Notes       *string
	AppliedDate *Date
	UpdatedDate *Date
}

// Record builds the storable form of n. The id is left zero for the store to assign.
func (n NewApplication) Record() *Application {
	return &Application{
		Company:     n.Company,
		Position:    n.Position,
		Status:      n.Status,
		Link:        cloneString(n.Link),
		Notes:       cloneString(n.Notes),
		AppliedDate: cloneDate(n.AppliedDate),
		UpdatedDate: cloneDate(n.UpdatedDate),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
