package sqlxrepos

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

func Test_agreementRow_toAgreement(t *testing.T) {
	ts := time.Date(2024, time.September, 2, 10, 0, 0, 0, time.FixedZone("EDT", -4*3600))

	tests := []struct {
		name      string
		teacherID null.Int
		want      internship.TeacherAssignment
	}{
		{name: "null teacher", teacherID: null.Int{}, want: internship.Unassigned},
		{name: "assigned teacher", teacherID: null.IntFrom(3), want: internship.AssignedTo(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := agreementRow{ID: 1, OfferID: 2, AcademicYear: 2025, TeacherID: tt.teacherID, CreatedAt: ts, UpdatedAt: ts}
			got := row.toAgreement()
			assert.Equal(t, tt.want, got.Teacher)
			assert.Equal(t, time.UTC, got.CreatedAt.Location())
			assert.Equal(t, tt.teacherID, teacherIDOf(got.Teacher))
		})
	}
}

func Test_isUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: errors.Wrap(&pq.Error{Code: "23505"}, "inserting teacher"), want: true},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
