package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

// Logger is a core.Logger recording what it is given.
type Logger struct {
	mu     sync.Mutex
	Errors []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) Debug(string, ...interface{}) {}
func (l *Logger) Info(string, ...interface{})  {}
func (l *Logger) Warn(string, ...interface{})  {}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, fmt.Sprint(append([]interface{}{msg}, args...)...))
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	panic(fmt.Sprint(append([]interface{}{msg}, args...)...))
}

// NewValidator returns a validator with every custom validator and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	internship.InitValidators(validate, translator)
	return validate, translator
}

func CreateOffer(t *testing.T, svc *internship.Service, title, company string, year int, status ...internship.OfferStatus) internship.Offer {
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, internship.NewOffer{Title: title, Company: company, AcademicYear: year})
	if err != nil {
		t.Fatalf("CreateOffer() failed: %v", err)
	}
	if len(status) > 0 && status[0] != internship.StatusPending {
		if offer, err = svc.ReviewOffer(ctx, offer.ID, status[0]); err != nil {
			t.Fatalf("CreateOffer() failed: %v", err)
		}
	}
	return offer
}

func CreateTeacher(t *testing.T, svc *internship.Service, name, email string) internship.Teacher {
	teacher, err := svc.CreateTeacher(context.Background(), internship.NewTeacher{Name: name, Email: email})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return teacher
}
