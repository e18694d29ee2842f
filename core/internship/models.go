package internship

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core"
)

type OfferStatus string

// Offer statuses
const (
	StatusPending  OfferStatus = "pending"
	StatusApproved OfferStatus = "approved"
	StatusRejected OfferStatus = "rejected"
)

var OfferStatuses = []OfferStatus{StatusPending, StatusApproved, StatusRejected}

func (st OfferStatus) Valid() bool {
	for _, s := range OfferStatuses {
		if st == s {
			return true
		}
	}
	return false
}

type Offer struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Company      string      `json:"company"`
	Description  string      `json:"description"`
	AcademicYear int         `json:"academic_year"`
	Status       OfferStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
}

type Teacher struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TeacherAssignment is either Unassigned or AssignedTo a teacher; its zero value is Unassigned.
type TeacherAssignment struct {
	teacherID int
	assigned  bool
}

// Unassigned is the assignment of an agreement no teacher supervises yet.
var Unassigned = TeacherAssignment{}

func AssignedTo(teacherID int) TeacherAssignment {
	return TeacherAssignment{teacherID: teacherID, assigned: true}
}

func (a TeacherAssignment) IsAssigned() bool { return a.assigned }

// TeacherID returns the assigned teacher, ok is false when Unassigned.
func (a TeacherAssignment) TeacherID() (id int, ok bool) {
	return a.teacherID, a.assigned
}

type assignmentJSON struct {
	Status    string `json:"status"`
	TeacherID int    `json:"teacher_id,omitempty"`
}

const (
	assignmentAssigned   = "assigned"
	assignmentUnassigned = "unassigned"
)

func (a TeacherAssignment) MarshalJSON() ([]byte, error) {
	if !a.assigned {
		return json.Marshal(assignmentJSON{Status: assignmentUnassigned})
	}
	return json.Marshal(assignmentJSON{Status: assignmentAssigned, TeacherID: a.teacherID})
}

func (a *TeacherAssignment) UnmarshalJSON(data []byte) error {
	var aj assignmentJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	switch aj.Status {
	case assignmentUnassigned:
		*a = Unassigned
	case assignmentAssigned:
		if aj.TeacherID <= 0 {
			return errors.New("assigned teacher requires a teacher_id")
		}
		*a = AssignedTo(aj.TeacherID)
	default:
		return errors.Errorf("unknown teacher assignment status %q", aj.Status)
	}
	return nil
}

type Agreement struct {
	ID           int               `json:"id"`
	OfferID      int               `json:"offer_id"`
	StudentName  string            `json:"student_name"`
	StudentEmail string            `json:"student_email"`
	AcademicYear int               `json:"academic_year"`
	Teacher      TeacherAssignment `json:"teacher"`
	CreatedAt    time.Time         `json:"created_at"` // UTC
	UpdatedAt    time.Time         `json:"updated_at"` // UTC
}

// NewOffer contains information needed to publish an Offer.
// AcademicYear defaults to the session's selected year when zero.
type NewOffer struct {
	Title        string `json:"title" validate:"required,notblank,max=200"`
	Company      string `json:"company" validate:"required,notblank,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	AcademicYear int    `json:"academic_year" validate:"academicyear"`
}

func (no *NewOffer) Validate(validate *validator.Validate) error {
	no.Title = core.CleanString(no.Title)
	no.Company = core.CleanString(no.Company)
	no.Description = core.CleanString(no.Description)
	return validate.Struct(no)
}

// ReviewOffer is a gestionnaire's decision on a pending Offer.
type ReviewOffer struct {
	Status OfferStatus `json:"status" validate:"required,offerreview"`
}

type NewTeacher struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	return validate.Struct(nt)
}

type NewAgreement struct {
	OfferID      int    `json:"offer_id" validate:"required,gt=0"`
	StudentName  string `json:"student_name" validate:"required,notblank"`
	StudentEmail string `json:"student_email" validate:"required,email"`
}

func (na *NewAgreement) Validate(validate *validator.Validate) error {
	na.StudentName = core.CleanString(na.StudentName)
	na.StudentEmail = core.CleanString(na.StudentEmail, true /* lower */)
	return validate.Struct(na)
}

type AssignTeacher struct {
	TeacherID int `json:"teacher_id" validate:"required,gt=0"`
}

type OfferFilter struct {
	Search   string
	Statuses []OfferStatus
}

func (f *OfferFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
}

// AgreementFilter.Teacher values
const (
	FilterAssigned   = assignmentAssigned
	FilterUnassigned = assignmentUnassigned
)

// AgreementFilter.Teacher is empty, FilterAssigned or FilterUnassigned.
type AgreementFilter struct {
	Search    string
	Teacher   string
	TeacherID int
}

func (f *AgreementFilter) Clean() {
	f.Search = core.CleanString(f.Search, true /* lower */)
	f.Teacher = core.CleanString(f.Teacher, true /* lower */)
}
