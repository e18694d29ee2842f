package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
)

type internshipApi struct {
	svc      *internship.Service
	validate *validator.Validate
}

func registerInternshipAPI(g *echo.Group, auth *sessionAuth, svc *internship.Service, validate *validator.Validate) {
	api := internshipApi{svc: svc, validate: validate}
	gestionnaire := roleMiddleware(RoleGestionnaire)

	og := g.Group("/offers", auth.middleware())
	og.GET("", api.queryOffers)
	og.POST("", api.createOffer, roleMiddleware(RoleEmployer, RoleGestionnaire))
	og.GET("/:id", api.retrieveOffer)
	og.POST("/:id/approve", api.reviewOffer(internship.StatusApproved), gestionnaire)
	og.POST("/:id/reject", api.reviewOffer(internship.StatusRejected), gestionnaire)
	og.PUT("/:id/review", api.updateReview, gestionnaire)

	tg := g.Group("/teachers", auth.middleware())
	tg.GET("", api.queryTeachers)
	tg.POST("", api.createTeacher, gestionnaire)

	ag := g.Group("/agreements", auth.middleware())
	ag.GET("", api.queryAgreements, gestionnaire)
	ag.POST("", api.createAgreement, roleMiddleware(RoleStudent, RoleGestionnaire))
	ag.GET("/:id", api.retrieveAgreement, gestionnaire)
	ag.PUT("/:id/teacher", api.assignTeacher, gestionnaire)
	ag.DELETE("/:id/teacher", api.unassignTeacher, gestionnaire)
}

// Offers

func (api *internshipApi) queryOffers(ctx echo.Context) error {
	year, err := bindYear(ctx)
	if err != nil {
		return err
	}

	filter := internship.OfferFilter{Search: ctx.QueryParam("search")}
	for _, val := range ctx.QueryParams()["status"] {
		st := internship.OfferStatus(core.CleanString(val, true /* lower */))
		if !st.Valid() {
			return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "unknown status " + val})
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	offers, err := api.svc.QueryOffers(ctx.Request().Context(), year, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying offers")
	}
	if offers == nil {
		offers = []internship.Offer{}
	}
	return ctx.JSON(http.StatusOK, offers)
}

func (api *internshipApi) createOffer(ctx echo.Context) error {
	var data internship.NewOffer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOffer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.AcademicYear == 0 {
		year, err := bindYear(ctx)
		if err != nil {
			return err
		}
		data.AcademicYear = year
	}

	offer, err := api.svc.CreateOffer(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating offer")
	}
	return ctx.JSON(http.StatusCreated, offer)
}

func (api *internshipApi) retrieveOffer(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	offer, err := api.svc.GetOffer(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding offer")
	}
	return ctx.JSON(http.StatusOK, offer)
}

func (api *internshipApi) reviewOffer(status internship.OfferStatus) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := bindID(ctx)
		if err != nil {
			return err
		}
		offer, err := api.svc.ReviewOffer(ctx.Request().Context(), id, status)
		if err != nil {
			return errors.Wrap(err, "reviewing offer")
		}
		return ctx.JSON(http.StatusOK, offer)
	}
}

// updateReview is the body form of the approve/reject routes: {"status": "approved"|"rejected"}.
func (api *internshipApi) updateReview(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var data internship.ReviewOffer
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewOffer")
	}
	data.Status = internship.OfferStatus(core.CleanString(string(data.Status), true /* lower */))
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	offer, err := api.svc.ReviewOffer(ctx.Request().Context(), id, data.Status)
	if err != nil {
		return errors.Wrap(err, "reviewing offer")
	}
	return ctx.JSON(http.StatusOK, offer)
}

// Teachers

func (api *internshipApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []internship.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *internshipApi) createTeacher(ctx echo.Context) error {
	var data internship.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	teacher, err := api.svc.CreateTeacher(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, teacher)
}

// Agreements

func (api *internshipApi) queryAgreements(ctx echo.Context) error {
	year, err := bindYear(ctx)
	if err != nil {
		return err
	}

	filter := internship.AgreementFilter{
		Search:  ctx.QueryParam("search"),
		Teacher: ctx.QueryParam("teacher"),
	}
	filter.Clean()
	switch filter.Teacher {
	case "", internship.FilterAssigned, internship.FilterUnassigned:
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "teacher", Error: "teacher must be one of assigned or unassigned"})
	}
	if val := ctx.QueryParam("teacher_id"); val != "" {
		if filter.TeacherID, err = strconv.Atoi(val); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "teacher_id", Error: "teacher_id must be a number"})
		}
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	agreements, err := api.svc.QueryAgreements(ctx.Request().Context(), year, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying agreements")
	}
	if agreements == nil {
		agreements = []internship.Agreement{}
	}
	return ctx.JSON(http.StatusOK, agreements)
}

func (api *internshipApi) createAgreement(ctx echo.Context) error {
	var data internship.NewAgreement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAgreement")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	agreement, err := api.svc.CreateAgreement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating agreement")
	}
	return ctx.JSON(http.StatusCreated, agreement)
}

func (api *internshipApi) retrieveAgreement(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	agreement, err := api.svc.GetAgreement(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding agreement")
	}
	return ctx.JSON(http.StatusOK, agreement)
}

func (api *internshipApi) assignTeacher(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var data internship.AssignTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTeacher")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	agreement, err := api.svc.AssignTeacher(ctx.Request().Context(), id, internship.AssignedTo(data.TeacherID))
	if err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	return ctx.JSON(http.StatusOK, agreement)
}

func (api *internshipApi) unassignTeacher(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	agreement, err := api.svc.AssignTeacher(ctx.Request().Context(), id, internship.Unassigned)
	if err != nil {
		return errors.Wrap(err, "unassigning teacher")
	}
	return ctx.JSON(http.StatusOK, agreement)
}
