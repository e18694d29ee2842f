package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
)

var (
	orderingParam = "ordering"
	yearParam     = "year"
)

type Ordering struct {
	Orderings []core.Ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	if val := ctx.QueryParam(orderingParam); val != "" {
		ord.Orderings = core.ParseOrdering(val)
	}
}

// bindYear reads the `year` query parameter ("2025" or "2024-2025"),
// defaulting to the year selected in the session.
func bindYear(ctx echo.Context) (int, error) {
	if val := ctx.QueryParam(yearParam); val != "" {
		year, err := academic.Parse(val)
		if err != nil {
			return 0, core.NewValidationError(err, core.FieldError{Field: yearParam, Error: err.Error()})
		}
		return year, nil
	}

	store, err := getContextStore(ctx)
	if err != nil {
		return 0, err
	}
	return store.SelectedYear()
}

// bindID reads the `:id` path parameter; malformed ids are not found.
func bindID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
