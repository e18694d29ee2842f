// Package internship manages internship offers, their agreements and the teachers supervising them.
// Every listing is scoped to one academic year.
package internship

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/NathJo212/Overd-OSE-sub001/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrOfferNotFound       = core.NewNotFoundError("offer")
	ErrTeacherNotFound     = core.NewNotFoundError("teacher")
	ErrAgreementNotFound   = core.NewNotFoundError("agreement")
	ErrInvalidTransition   = errors.New("only pending offers can be reviewed")
	ErrOfferNotApproved    = errors.New("agreements can only be made for approved offers")
	ErrAgreementExists     = errors.New("this student already has an agreement for this offer")
	ErrTeacherExists       = errors.New("a teacher with this email already exists")
	ErrSimilarOffer        = errors.New("this company already published a similar offer for this academic year")
	errMissingAcademicYear = errors.New("an academic year is required")
)

// titleMaxSim is the similarity ratio from which two titles of a company's offers are the same offer.
const titleMaxSim = 0.9

type (
	Repository interface {
		CreateOffer(ctx context.Context, offer Offer) (Offer, error)
		GetOffer(ctx context.Context, id int) (Offer, error)
		// QueryOffers returns the offers of an academic year, in no particular order.
		QueryOffers(ctx context.Context, year int) ([]Offer, error)
		// UpdateOfferStatus moves an offer from one status to another, atomically.
		// It returns ErrInvalidTransition when the offer is no longer in status from.
		UpdateOfferStatus(ctx context.Context, id int, from, to OfferStatus, updatedAt time.Time) (Offer, error)

		// CreateTeacher returns ErrTeacherExists when the email is taken.
		CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
		CheckTeacherUniqueness(ctx context.Context, email string) error
		GetTeacher(ctx context.Context, id int) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)

		// CreateAgreement returns ErrAgreementExists when the student already has an agreement for the offer.
		CreateAgreement(ctx context.Context, agreement Agreement) (Agreement, error)
		GetAgreement(ctx context.Context, id int) (Agreement, error)
		// QueryAgreements returns the agreements of an academic year, in no particular order.
		QueryAgreements(ctx context.Context, year int) ([]Agreement, error)
		UpdateAgreement(ctx context.Context, agreement Agreement) (Agreement, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func now() time.Time {
	return NowFunc().UTC()
}

// CreateOffer publishes a pending offer. no.AcademicYear must already be defaulted by the caller.
func (svc *Service) CreateOffer(ctx context.Context, no NewOffer) (Offer, error) {
	if no.AcademicYear == 0 {
		return Offer{}, core.NewValidationError(errMissingAcademicYear,
			core.FieldError{Field: "academic_year", Error: errMissingAcademicYear.Error()})
	}
	existing, err := svc.repo.QueryOffers(ctx, no.AcademicYear)
	if err != nil {
		return Offer{}, errors.Wrap(err, "querying offers")
	}
	for _, o := range existing {
		if o.Status != StatusRejected && strings.EqualFold(o.Company, no.Company) && similarity(o.Title, no.Title) >= titleMaxSim {
			return Offer{}, core.NewValidationError(ErrSimilarOffer,
				core.FieldError{Field: "title", Error: ErrSimilarOffer.Error()})
		}
	}

	t := now()
	offer, err := svc.repo.CreateOffer(ctx, Offer{
		Title:        no.Title,
		Company:      no.Company,
		Description:  no.Description,
		AcademicYear: no.AcademicYear,
		Status:       StatusPending,
		CreatedAt:    t,
		UpdatedAt:    t,
	})
	return offer, errors.Wrap(err, "creating offer")
}

// similarity returns the case-insensitive similarity ratio of two titles, from 0 to 1.
func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}

func (svc *Service) GetOffer(ctx context.Context, id int) (Offer, error) {
	return svc.repo.GetOffer(ctx, id)
}

// QueryOffers lists the offers of an academic year, filtered and sorted in memory.
func (svc *Service) QueryOffers(ctx context.Context, year int, filter OfferFilter, ordering []core.Ordering) ([]Offer, error) {
	offers, err := svc.repo.QueryOffers(ctx, year)
	if err != nil {
		return nil, errors.Wrap(err, "querying offers")
	}
	offers = FilterOffers(offers, filter)
	if err = SortOffers(offers, ordering); err != nil {
		return nil, err
	}
	return offers, nil
}

// ReviewOffer approves or rejects a pending offer.
func (svc *Service) ReviewOffer(ctx context.Context, id int, status OfferStatus) (Offer, error) {
	if status != StatusApproved && status != StatusRejected {
		return Offer{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: offerReviewText})
	}
	offer, err := svc.repo.GetOffer(ctx, id)
	if err != nil {
		return Offer{}, err
	}
	if offer.Status != StatusPending {
		return Offer{}, core.NewValidationError(ErrInvalidTransition)
	}
	offer, err = svc.repo.UpdateOfferStatus(ctx, id, StatusPending, status, now())
	if err != nil {
		if errors.Cause(err) == ErrInvalidTransition {
			return Offer{}, core.NewValidationError(ErrInvalidTransition)
		}
		return Offer{}, errors.Wrap(err, "reviewing offer")
	}
	return offer, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckTeacherUniqueness(ctx, email); err != nil {
		if errors.Cause(err) == ErrTeacherExists {
			return core.NewValidationError(ErrTeacherExists, core.FieldError{Field: "email", Error: ErrTeacherExists.Error()})
		}
		return errors.Wrap(err, "checking teacher uniqueness")
	}
	return nil
}

// CreateTeacher adds a teacher; emails are unique.
func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := svc.checkUniqueness(ctx, nt.Email); err != nil {
		return Teacher{}, err
	}
	teacher, err := svc.repo.CreateTeacher(ctx, Teacher{Name: nt.Name, Email: nt.Email})
	if errors.Cause(err) == ErrTeacherExists {
		// lost a race against another insert
		return Teacher{}, core.NewValidationError(ErrTeacherExists, core.FieldError{Field: "email", Error: ErrTeacherExists.Error()})
	}
	return teacher, errors.Wrap(err, "creating teacher")
}

func (svc *Service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	teachers, err := svc.repo.QueryTeachers(ctx)
	return teachers, errors.Wrap(err, "querying teachers")
}

// CreateAgreement binds a student to an approved offer; the agreement belongs to the offer's academic year.
func (svc *Service) CreateAgreement(ctx context.Context, na NewAgreement) (Agreement, error) {
	offer, err := svc.repo.GetOffer(ctx, na.OfferID)
	if err != nil {
		if errors.Cause(err) == ErrOfferNotFound {
			return Agreement{}, core.NewValidationError(err, core.FieldError{Field: "offer_id", Error: err.Error()})
		}
		return Agreement{}, errors.Wrap(err, "finding offer")
	}
	if offer.Status != StatusApproved {
		return Agreement{}, core.NewValidationError(ErrOfferNotApproved,
			core.FieldError{Field: "offer_id", Error: ErrOfferNotApproved.Error()})
	}

	existing, err := svc.repo.QueryAgreements(ctx, offer.AcademicYear)
	if err != nil {
		return Agreement{}, errors.Wrap(err, "querying agreements")
	}
	for _, a := range existing {
		if a.OfferID == offer.ID && a.StudentEmail == na.StudentEmail {
			return Agreement{}, core.NewValidationError(ErrAgreementExists,
				core.FieldError{Field: "student_email", Error: ErrAgreementExists.Error()})
		}
	}

	t := now()
	agreement, err := svc.repo.CreateAgreement(ctx, Agreement{
		OfferID:      offer.ID,
		StudentName:  na.StudentName,
		StudentEmail: na.StudentEmail,
		AcademicYear: offer.AcademicYear,
		Teacher:      Unassigned,
		CreatedAt:    t,
		UpdatedAt:    t,
	})
	if errors.Cause(err) == ErrAgreementExists {
		return Agreement{}, core.NewValidationError(ErrAgreementExists,
			core.FieldError{Field: "student_email", Error: ErrAgreementExists.Error()})
	}
	return agreement, errors.Wrap(err, "creating agreement")
}

func (svc *Service) GetAgreement(ctx context.Context, id int) (Agreement, error) {
	return svc.repo.GetAgreement(ctx, id)
}

// QueryAgreements lists the agreements of an academic year, filtered and sorted in memory.
func (svc *Service) QueryAgreements(ctx context.Context, year int, filter AgreementFilter, ordering []core.Ordering) ([]Agreement, error) {
	agreements, err := svc.repo.QueryAgreements(ctx, year)
	if err != nil {
		return nil, errors.Wrap(err, "querying agreements")
	}
	agreements = FilterAgreements(agreements, filter)
	if err = SortAgreements(agreements, ordering); err != nil {
		return nil, err
	}
	return agreements, nil
}

// AssignTeacher sets (or clears, with Unassigned) the teacher supervising an agreement.
func (svc *Service) AssignTeacher(ctx context.Context, id int, assignment TeacherAssignment) (Agreement, error) {
	agreement, err := svc.repo.GetAgreement(ctx, id)
	if err != nil {
		return Agreement{}, err
	}
	if teacherID, ok := assignment.TeacherID(); ok {
		if _, err = svc.repo.GetTeacher(ctx, teacherID); err != nil {
			if errors.Cause(err) == ErrTeacherNotFound {
				return Agreement{}, core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: err.Error()})
			}
			return Agreement{}, errors.Wrap(err, "finding teacher")
		}
	}
	agreement.Teacher = assignment
	agreement.UpdatedAt = now()
	agreement, err = svc.repo.UpdateAgreement(ctx, agreement)
	return agreement, errors.Wrap(err, "assigning teacher")
}
