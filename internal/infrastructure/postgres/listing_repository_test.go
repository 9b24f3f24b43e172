package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
)

func TestListingWhere(t *testing.T) {
	where, args := listingWhere(entity.ListingFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	minPrice := decimal.NewFromInt(10)
	where, args = listingWhere(entity.ListingFilter{
		Query:    "  50%_off ",
		Status:   entity.ListingActive,
		MinPrice: &minPrice,
	})
	assert.Equal(t, " WHERE (title ILIKE $1 OR description ILIKE $1) AND status = $2 AND price >= $3", where)
	assert.Equal(t, []any{`%50\%\_off%`, entity.ListingActive, minPrice}, args)
}
