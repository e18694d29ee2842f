package internship

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/NathJo212/Overd-OSE-sub001/core"
)

var (
	offerReviewTag  = "offerreview"
	offerReviewText = "status must be one of approved or rejected"
)

// InitValidators registers the internship validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(offerReviewTag, offerReviewValidation)
	core.RegisterCustomTranslation(validate, translator, offerReviewTag, offerReviewText)
}

// offerReviewValidation only allows the statuses a pending offer can move to.
func offerReviewValidation(fl validator.FieldLevel) bool {
	st := OfferStatus(fl.Field().String())
	return st == StatusApproved || st == StatusRejected
}
