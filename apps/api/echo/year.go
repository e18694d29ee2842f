package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
	"github.com/NathJo212/Overd-OSE-sub001/core/banner"
)

const dateLayout = "2006-01-02"

func registerYearAPI(g *echo.Group, auth *sessionAuth) {
	g.GET("/academic-year", resolveAcademicYear)

	yg := g.Group("/year", auth.middleware())
	yg.GET("", retrieveYear)
	yg.PUT("", updateYear)
	yg.GET("/banner", retrieveBanner)
}

// Handlers

func resolveAcademicYear(ctx echo.Context) error {
	date := academic.NowFunc()
	if val := ctx.QueryParam("date"); val != "" {
		var err error
		if date, err = time.Parse(dateLayout, val); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "date", Error: "date must be formatted as YYYY-MM-DD"})
		}
	}

	year := academic.Year(date)
	start, end := academic.Bounds(year, date.Location())
	return ctx.JSON(http.StatusOK, AcademicYearResponse{
		Year:     year,
		Label:    academic.Label(year),
		StartsOn: start.Format(dateLayout),
		EndsOn:   end.AddDate(0, 0, -1).Format(dateLayout),
	})
}

func retrieveYear(ctx echo.Context) error {
	store, err := getContextStore(ctx)
	if err != nil {
		return err
	}
	selected, err := store.SelectedYear()
	if err != nil {
		return errors.Wrap(err, "reading selected year")
	}
	return ctx.JSON(http.StatusOK, newYearResponse(selected))
}

func updateYear(ctx echo.Context) error {
	var data UpdateYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateYear")
	}
	if data.Year == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "year", Error: "this field is required"})
	}

	store, err := getContextStore(ctx)
	if err != nil {
		return err
	}
	if err = store.SetSelectedYear(*data.Year); err != nil {
		return errors.Wrap(err, "setting selected year")
	}
	return ctx.JSON(http.StatusOK, newYearResponse(*data.Year))
}

func retrieveBanner(ctx echo.Context) error {
	store, err := getContextStore(ctx)
	if err != nil {
		return err
	}
	selected, err := store.SelectedYear()
	if err != nil {
		return errors.Wrap(err, "reading selected year")
	}

	b, ok := banner.Evaluate(selected, academic.NowFunc())
	if !ok {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, b)
}

type (
	AcademicYearResponse struct {
		Year     int    `json:"year"`
		Label    string `json:"label"`
		StartsOn string `json:"starts_on"`
		EndsOn   string `json:"ends_on"`
	}

	// UpdateYear accepts any year, past or future; it only has to be present.
	UpdateYear struct {
		Year *int `json:"year"`
	}

	YearResponse struct {
		SelectedYear int    `json:"selected_year"`
		CurrentYear  int    `json:"current_year"`
		Label        string `json:"label"`
		IsPastYear   bool   `json:"is_past_year"`
	}
)

func newYearResponse(selected int) YearResponse {
	current := academic.Current()
	return YearResponse{
		SelectedYear: selected,
		CurrentYear:  current,
		Label:        academic.Label(selected),
		IsPastYear:   selected < current,
	}
}
