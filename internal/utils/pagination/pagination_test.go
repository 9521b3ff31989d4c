package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestPages(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		perPage int
		want    int64
	}{
		{"exact multiple", 20, 10, 2},
		{"remainder rounds up", 25, 10, 3},
		{"single partial page", 3, 10, 1},
		{"empty", 0, 10, 0},
		{"one per page", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{PerPage: tt.perPage, Total: tt.total}
			assert.Equal(t, tt.want, p.Pages())
		})
	}
}

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit", "?page=2&per_page=10", 2, 10, 10},
		{"garbage falls back", "?page=zero&per_page=-5", 1, 20, 0},
		{"page three", "?page=3&per_page=7", 3, 7, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParseFromRequest(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			assert.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPerPage, got.PerPage)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}
