package inmemdb

import (
	"context"
	"strings"
	"time"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

type internshipRepository struct {
	db *DB
}

var _ internship.Repository = (*internshipRepository)(nil) // interface compliance check

func NewInternshipRepository(db *DB) internship.Repository {
	return &internshipRepository{db: db}
}

func (repo *internshipRepository) CreateOffer(_ context.Context, offer internship.Offer) (internship.Offer, error) {
	t := repo.db.offer
	t.Lock()
	defer t.Unlock()

	t.pkCount++
	offer.ID = t.pkCount
	t.table[offer.ID] = &offer
	return offer, nil
}

func (repo *internshipRepository) GetOffer(_ context.Context, id int) (internship.Offer, error) {
	t := repo.db.offer
	t.RLock()
	defer t.RUnlock()

	if offer, ok := t.table[id]; ok {
		return *offer, nil
	}
	return internship.Offer{}, internship.ErrOfferNotFound
}

func (repo *internshipRepository) QueryOffers(_ context.Context, year int) ([]internship.Offer, error) {
	t := repo.db.offer
	t.RLock()
	defer t.RUnlock()

	offers := make([]internship.Offer, 0, len(t.table))
	for _, o := range t.table {
		if o.AcademicYear == year {
			offers = append(offers, *o)
		}
	}
	return offers, nil
}

func (repo *internshipRepository) UpdateOfferStatus(_ context.Context, id int, from, to internship.OfferStatus, updatedAt time.Time) (internship.Offer, error) {
	t := repo.db.offer
	t.Lock()
	defer t.Unlock()

	offer, ok := t.table[id]
	if !ok {
		return internship.Offer{}, internship.ErrOfferNotFound
	}
	if offer.Status != from {
		return internship.Offer{}, internship.ErrInvalidTransition
	}
	updated := *offer
	updated.Status = to
	updated.UpdatedAt = updatedAt
	t.table[id] = &updated
	return updated, nil
}

func (repo *internshipRepository) CreateTeacher(_ context.Context, teacher internship.Teacher) (internship.Teacher, error) {
	t := repo.db.teacher
	t.Lock()
	defer t.Unlock()

	if t.emailTaken(teacher.Email) {
		return internship.Teacher{}, internship.ErrTeacherExists
	}
	t.pkCount++
	teacher.ID = t.pkCount
	t.table[teacher.ID] = &teacher
	return teacher, nil
}

func (repo *internshipRepository) CheckTeacherUniqueness(_ context.Context, email string) error {
	t := repo.db.teacher
	t.RLock()
	defer t.RUnlock()

	if t.emailTaken(email) {
		return internship.ErrTeacherExists
	}
	return nil
}

// emailTaken must be called with the table locked.
func (t *teacherTable) emailTaken(email string) bool {
	for _, teacher := range t.table {
		if strings.EqualFold(teacher.Email, email) {
			return true
		}
	}
	return false
}

func (repo *internshipRepository) GetTeacher(_ context.Context, id int) (internship.Teacher, error) {
	t := repo.db.teacher
	t.RLock()
	defer t.RUnlock()

	if teacher, ok := t.table[id]; ok {
		return *teacher, nil
	}
	return internship.Teacher{}, internship.ErrTeacherNotFound
}

func (repo *internshipRepository) QueryTeachers(_ context.Context) ([]internship.Teacher, error) {
	t := repo.db.teacher
	t.RLock()
	defer t.RUnlock()

	teachers := make([]internship.Teacher, 0, len(t.table))
	for id := 1; id <= t.pkCount; id++ {
		if teacher, ok := t.table[id]; ok {
			teachers = append(teachers, *teacher)
		}
	}
	return teachers, nil
}

func (repo *internshipRepository) CreateAgreement(_ context.Context, agreement internship.Agreement) (internship.Agreement, error) {
	t := repo.db.agreement
	t.Lock()
	defer t.Unlock()

	for _, a := range t.table {
		if a.OfferID == agreement.OfferID && strings.EqualFold(a.StudentEmail, agreement.StudentEmail) {
			return internship.Agreement{}, internship.ErrAgreementExists
		}
	}
	t.pkCount++
	agreement.ID = t.pkCount
	t.table[agreement.ID] = &agreement
	return agreement, nil
}

func (repo *internshipRepository) GetAgreement(_ context.Context, id int) (internship.Agreement, error) {
	t := repo.db.agreement
	t.RLock()
	defer t.RUnlock()

	if agreement, ok := t.table[id]; ok {
		return *agreement, nil
	}
	return internship.Agreement{}, internship.ErrAgreementNotFound
}

func (repo *internshipRepository) QueryAgreements(_ context.Context, year int) ([]internship.Agreement, error) {
	t := repo.db.agreement
	t.RLock()
	defer t.RUnlock()

	agreements := make([]internship.Agreement, 0, len(t.table))
	for _, a := range t.table {
		if a.AcademicYear == year {
			agreements = append(agreements, *a)
		}
	}
	return agreements, nil
}

func (repo *internshipRepository) UpdateAgreement(_ context.Context, agreement internship.Agreement) (internship.Agreement, error) {
	t := repo.db.agreement
	t.Lock()
	defer t.Unlock()

	if _, ok := t.table[agreement.ID]; !ok {
		return internship.Agreement{}, internship.ErrAgreementNotFound
	}
	t.table[agreement.ID] = &agreement
	return agreement, nil
}
