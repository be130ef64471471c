package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fatimaschool/website/core"
)

const orderingParam = "ordering"

// bindOrdering reads a comma separated list of fields from the "ordering" query param,
// eg. "-title,id". A leading "-" sorts that field in descending order.
// Blank entries are skipped; unknown fields are left to the repository to ignore.
func bindOrdering(ctx echo.Context) []core.DBOrdering {
	raw := strings.TrimSpace(ctx.QueryParam(orderingParam))
	if raw == "" {
		return nil
	}

	var orderings []core.DBOrdering
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		field, descending := strings.TrimPrefix(field, "-"), strings.HasPrefix(field, "-")
		if field == "" {
			continue
		}
		orderings = append(orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
