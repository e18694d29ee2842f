package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/NathJo212/Overd-OSE-sub001/apps/api/echo"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	testutil "github.com/NathJo212/Overd-OSE-sub001/tests"
)

func Test_internshipApi_offers(t *testing.T) {
	app := setup(t)
	employer := app.openSession(t, echoapi.RoleEmployer)
	gestionnaire := app.openSession(t, echoapi.RoleGestionnaire)
	student := app.openSession(t, echoapi.RoleStudent)

	// the employer is browsing the previous academic year
	rec := app.do(t, http.MethodPut, "/v1/year", employer, jsonObj{"year": 2024})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/v1/offers", employer, jsonObj{"title": " Backend intern ", "company": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var offer internship.Offer
	decode(t, rec, &offer)
	assert.Equal(t, "Backend intern", offer.Title)
	assert.Equal(t, 2024, offer.AcademicYear)
	assert.Equal(t, internship.StatusPending, offer.Status)

	current := testutil.CreateOffer(t, app.svc, "Data analyst", "Zeta", 2025)

	query := func(token, path string) []internship.Offer {
		rec := app.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var offers []internship.Offer
		decode(t, rec, &offers)
		return offers
	}

	// listings follow each session's selected year
	assert.Equal(t, []internship.Offer{offer}, query(employer, "/v1/offers"))
	assert.Equal(t, []internship.Offer{current}, query(gestionnaire, "/v1/offers"))
	assert.Equal(t, []internship.Offer{offer}, query(gestionnaire, "/v1/offers?year=2023-2024"))
	assert.Equal(t, []internship.Offer{}, query(gestionnaire, "/v1/offers?year=2030"))
	assert.Equal(t, []internship.Offer{}, query(employer, "/v1/offers?status=approved"))

	rec = app.do(t, http.MethodGet, "/v1/offers?year=20-24", gestionnaire, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(t, http.MethodGet, "/v1/offers?status=lol", gestionnaire, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(t, http.MethodGet, "/v1/offers?ordering=lol", gestionnaire, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// permissions
	rec = app.do(t, http.MethodPost, "/v1/offers", student, jsonObj{"title": "t", "company": "c"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var herr httpErr
	decode(t, rec, &herr)
	assert.Equal(t, errForbidden, herr)

	path := fmt.Sprintf("/v1/offers/%d/approve", offer.ID)
	rec = app.do(t, http.MethodPost, path, employer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// review
	rec = app.do(t, http.MethodPost, path, gestionnaire, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &offer)
	assert.Equal(t, internship.StatusApproved, offer.Status)
	assert.Equal(t, []internship.Offer{offer}, query(employer, "/v1/offers?status=approved&status=rejected"))

	rec = app.do(t, http.MethodPost, fmt.Sprintf("/v1/offers/%d/reject", offer.ID), gestionnaire, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	herr = httpErr{}
	decode(t, rec, &herr)
	assert.Equal(t, internship.ErrInvalidTransition.Error(), herr.Error)

	rec = app.do(t, http.MethodPost, "/v1/offers/99/approve", gestionnaire, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	herr = httpErr{}
	decode(t, rec, &herr)
	assert.Equal(t, "offer not found", herr.Error)

	rec = app.do(t, http.MethodGet, "/v1/offers/lol", gestionnaire, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// review with a body
	other := testutil.CreateOffer(t, app.svc, "Mobile intern", "Beta", 2025)
	reviewPath := fmt.Sprintf("/v1/offers/%d/review", other.ID)
	rec = app.do(t, http.MethodPut, reviewPath, gestionnaire, jsonObj{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var statusErr map[string]string
	decode(t, rec, &statusErr)
	assert.Equal(t, map[string]string{"status": "status must be one of approved or rejected"}, statusErr)

	rec = app.do(t, http.MethodPut, reviewPath, employer, jsonObj{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPut, reviewPath, gestionnaire, jsonObj{"status": " Rejected "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &other)
	assert.Equal(t, internship.StatusRejected, other.Status)

	rec = app.do(t, http.MethodPut, reviewPath, gestionnaire, jsonObj{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid input
	rec = app.do(t, http.MethodPost, "/v1/offers", employer, jsonObj{"title": "  ", "academic_year": 25})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	decode(t, rec, &fields)
	assert.Equal(t, map[string]string{
		"title":         "this field is required",
		"company":       "this field is required",
		"academic_year": "invalid academic year",
	}, fields)
	assert.Empty(t, app.logger.Errors)
}

func Test_internshipApi_agreements(t *testing.T) {
	app := setup(t)
	gestionnaire := app.openSession(t, echoapi.RoleGestionnaire)
	student := app.openSession(t, echoapi.RoleStudent)

	approved := testutil.CreateOffer(t, app.svc, "Backend intern", "Acme", 2025, internship.StatusApproved)
	pending := testutil.CreateOffer(t, app.svc, "Frontend intern", "Acme", 2025)

	// teachers
	rec := app.do(t, http.MethodPost, "/v1/teachers", student, jsonObj{"name": "Mme Tremblay", "email": "tremblay@college.ca"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(t, http.MethodPost, "/v1/teachers", gestionnaire, jsonObj{"name": "Mme Tremblay", "email": "Tremblay@College.ca"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var teacher internship.Teacher
	decode(t, rec, &teacher)
	assert.Equal(t, "tremblay@college.ca", teacher.Email)

	rec = app.do(t, http.MethodPost, "/v1/teachers", gestionnaire, jsonObj{"name": "M. Tremblay", "email": "tremblay@college.ca"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var emailErr map[string]string
	decode(t, rec, &emailErr)
	assert.Equal(t, map[string]string{"email": internship.ErrTeacherExists.Error()}, emailErr)

	rec = app.do(t, http.MethodGet, "/v1/teachers", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var teachers []internship.Teacher
	decode(t, rec, &teachers)
	assert.Equal(t, []internship.Teacher{teacher}, teachers)

	// agreements
	rec = app.do(t, http.MethodPost, "/v1/agreements", student, jsonObj{
		"offer_id": pending.ID, "student_name": "Ana", "student_email": "ana@etu.ca",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	decode(t, rec, &fields)
	assert.Equal(t, internship.ErrOfferNotApproved.Error(), fields["offer_id"])

	rec = app.do(t, http.MethodPost, "/v1/agreements", student, jsonObj{
		"offer_id": approved.ID, "student_name": "Ana", "student_email": "ana@etu.ca",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var agreement internship.Agreement
	decode(t, rec, &agreement)
	assert.Equal(t, internship.Unassigned, agreement.Teacher)
	assert.Equal(t, 2025, agreement.AcademicYear)
	assert.Contains(t, rec.Body.String(), `"teacher":{"status":"unassigned"}`)

	rec = app.do(t, http.MethodGet, "/v1/agreements", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	teacherPath := fmt.Sprintf("/v1/agreements/%d/teacher", agreement.ID)
	rec = app.do(t, http.MethodPut, teacherPath, gestionnaire, jsonObj{"teacher_id": 42})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, teacherPath, gestionnaire, jsonObj{"teacher_id": teacher.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &agreement)
	assert.Equal(t, internship.AssignedTo(teacher.ID), agreement.Teacher)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"teacher":{"status":"assigned","teacher_id":%d}`, teacher.ID))

	query := func(path string) []internship.Agreement {
		rec := app.do(t, http.MethodGet, path, gestionnaire, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var agreements []internship.Agreement
		decode(t, rec, &agreements)
		return agreements
	}
	assert.Equal(t, []internship.Agreement{agreement}, query("/v1/agreements?teacher=assigned"))
	assert.Equal(t, []internship.Agreement{agreement}, query(fmt.Sprintf("/v1/agreements?teacher_id=%d", teacher.ID)))
	assert.Equal(t, []internship.Agreement{}, query("/v1/agreements?teacher=unassigned"))
	assert.Equal(t, []internship.Agreement{}, query("/v1/agreements?year=2024"))

	rec = app.do(t, http.MethodGet, "/v1/agreements?teacher=lol", gestionnaire, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodDelete, teacherPath, gestionnaire, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &agreement)
	assert.Equal(t, internship.Unassigned, agreement.Teacher)

	rec = app.do(t, http.MethodGet, "/v1/agreements/99", gestionnaire, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, app.logger.Errors)
}
