package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

type (
	internshipRepository struct {
		db *sqlx.DB
	}

	offerRow struct {
		ID           int       `db:"id"`
		Title        string    `db:"title"`
		Company      string    `db:"company"`
		Description  string    `db:"description"`
		AcademicYear int       `db:"academic_year"`
		Status       string    `db:"status"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
	}

	teacherRow struct {
		ID    int    `db:"id"`
		Name  string `db:"name"`
		Email string `db:"email"`
	}

	agreementRow struct {
		ID           int       `db:"id"`
		OfferID      int       `db:"offer_id"`
		StudentName  string    `db:"student_name"`
		StudentEmail string    `db:"student_email"`
		AcademicYear int       `db:"academic_year"`
		TeacherID    null.Int  `db:"teacher_id"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
	}
)

var _ internship.Repository = (*internshipRepository)(nil) // interface compliance check

func NewInternshipRepository(db *sqlx.DB) internship.Repository {
	return &internshipRepository{db: db}
}

// mappers

func (r offerRow) toOffer() internship.Offer {
	return internship.Offer{
		ID:           r.ID,
		Title:        r.Title,
		Company:      r.Company,
		Description:  r.Description,
		AcademicYear: r.AcademicYear,
		Status:       internship.OfferStatus(r.Status),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (r agreementRow) toAgreement() internship.Agreement {
	a := internship.Agreement{
		ID:           r.ID,
		OfferID:      r.OfferID,
		StudentName:  r.StudentName,
		StudentEmail: r.StudentEmail,
		AcademicYear: r.AcademicYear,
		Teacher:      internship.Unassigned,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.TeacherID.Valid {
		a.Teacher = internship.AssignedTo(r.TeacherID.Int)
	}
	return a
}

func teacherIDOf(a internship.TeacherAssignment) null.Int {
	if id, ok := a.TeacherID(); ok {
		return null.IntFrom(id)
	}
	return null.Int{}
}

// offers

const offerColumns = "id, title, company, description, academic_year, status, created_at, updated_at"

func (repo *internshipRepository) CreateOffer(ctx context.Context, offer internship.Offer) (internship.Offer, error) {
	q := `INSERT INTO offer (title, company, description, academic_year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		offer.Title, offer.Company, offer.Description, offer.AcademicYear, string(offer.Status),
		offer.CreatedAt, offer.UpdatedAt,
	).Scan(&offer.ID)
	return offer, errors.Wrap(err, "inserting offer")
}

func (repo *internshipRepository) GetOffer(ctx context.Context, id int) (internship.Offer, error) {
	var row offerRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+offerColumns+" FROM offer WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return internship.Offer{}, internship.ErrOfferNotFound
		}
		return internship.Offer{}, errors.Wrap(err, "selecting offer")
	}
	return row.toOffer(), nil
}

func (repo *internshipRepository) QueryOffers(ctx context.Context, year int) ([]internship.Offer, error) {
	var rows []offerRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+offerColumns+" FROM offer WHERE academic_year = $1", year); err != nil {
		return nil, errors.Wrap(err, "selecting offers")
	}
	offers := make([]internship.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, row.toOffer())
	}
	return offers, nil
}

// UpdateOfferStatus only updates the row while it is still in status from, so concurrent reviews
// of the same offer cannot both succeed.
func (repo *internshipRepository) UpdateOfferStatus(ctx context.Context, id int, from, to internship.OfferStatus, updatedAt time.Time) (internship.Offer, error) {
	q := `UPDATE offer SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4 RETURNING ` + offerColumns
	var row offerRow
	if err := repo.db.GetContext(ctx, &row, q, string(to), updatedAt, id, string(from)); err != nil {
		if err != sql.ErrNoRows {
			return internship.Offer{}, errors.Wrap(err, "updating offer status")
		}
		// either missing or no longer in status from
		if _, err = repo.GetOffer(ctx, id); err != nil {
			return internship.Offer{}, err
		}
		return internship.Offer{}, internship.ErrInvalidTransition
	}
	return row.toOffer(), nil
}

// teachers

func (repo *internshipRepository) CreateTeacher(ctx context.Context, teacher internship.Teacher) (internship.Teacher, error) {
	err := repo.db.QueryRowxContext(ctx,
		"INSERT INTO teacher (name, email) VALUES ($1, $2) RETURNING id", teacher.Name, teacher.Email,
	).Scan(&teacher.ID)
	if isUniqueViolation(err) {
		return internship.Teacher{}, internship.ErrTeacherExists
	}
	return teacher, errors.Wrap(err, "inserting teacher")
}

func (repo *internshipRepository) CheckTeacherUniqueness(ctx context.Context, email string) error {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM teacher WHERE lower(email) = lower($1))"
	if err := repo.db.GetContext(ctx, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking teacher email")
	}
	if exists {
		return internship.ErrTeacherExists
	}
	return nil
}

func (repo *internshipRepository) GetTeacher(ctx context.Context, id int) (internship.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, "SELECT id, name, email FROM teacher WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return internship.Teacher{}, internship.ErrTeacherNotFound
		}
		return internship.Teacher{}, errors.Wrap(err, "selecting teacher")
	}
	return internship.Teacher(row), nil
}

func (repo *internshipRepository) QueryTeachers(ctx context.Context) ([]internship.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT id, name, email FROM teacher ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "selecting teachers")
	}
	teachers := make([]internship.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, internship.Teacher(row))
	}
	return teachers, nil
}

// agreements

const agreementColumns = "id, offer_id, student_name, student_email, academic_year, teacher_id, created_at, updated_at"

func (repo *internshipRepository) CreateAgreement(ctx context.Context, agreement internship.Agreement) (internship.Agreement, error) {
	q := `INSERT INTO agreement (offer_id, student_name, student_email, academic_year, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		agreement.OfferID, agreement.StudentName, agreement.StudentEmail, agreement.AcademicYear,
		teacherIDOf(agreement.Teacher), agreement.CreatedAt, agreement.UpdatedAt,
	).Scan(&agreement.ID)
	if isUniqueViolation(err) {
		return internship.Agreement{}, internship.ErrAgreementExists
	}
	return agreement, errors.Wrap(err, "inserting agreement")
}

func (repo *internshipRepository) GetAgreement(ctx context.Context, id int) (internship.Agreement, error) {
	var row agreementRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+agreementColumns+" FROM agreement WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return internship.Agreement{}, internship.ErrAgreementNotFound
		}
		return internship.Agreement{}, errors.Wrap(err, "selecting agreement")
	}
	return row.toAgreement(), nil
}

func (repo *internshipRepository) QueryAgreements(ctx context.Context, year int) ([]internship.Agreement, error) {
	var rows []agreementRow
	q := "SELECT " + agreementColumns + " FROM agreement WHERE academic_year = $1"
	if err := repo.db.SelectContext(ctx, &rows, q, year); err != nil {
		return nil, errors.Wrap(err, "selecting agreements")
	}
	agreements := make([]internship.Agreement, 0, len(rows))
	for _, row := range rows {
		agreements = append(agreements, row.toAgreement())
	}
	return agreements, nil
}

func (repo *internshipRepository) UpdateAgreement(ctx context.Context, agreement internship.Agreement) (internship.Agreement, error) {
	q := `UPDATE agreement SET student_name = $1, student_email = $2, teacher_id = $3, updated_at = $4 WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, q,
		agreement.StudentName, agreement.StudentEmail, teacherIDOf(agreement.Teacher), agreement.UpdatedAt, agreement.ID,
	)
	if err != nil {
		return internship.Agreement{}, errors.Wrap(err, "updating agreement")
	}
	if err = mustAffect(res, internship.ErrAgreementNotFound); err != nil {
		return internship.Agreement{}, err
	}
	return agreement, nil
}

func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}
