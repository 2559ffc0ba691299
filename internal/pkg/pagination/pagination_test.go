package pagination

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRowNumber(t *testing.T) {
	tests := []struct {
		page, perPage, index, want int
	}{
		{1, 20, 0, 1},
		{1, 20, 19, 20},
		{2, 20, 0, 21},
		{3, 10, 4, 25},
	}

	for _, tt := range tests {
		if got := RowNumber(tt.page, tt.perPage, tt.index); got != tt.want {
			t.Fatalf("RowNumber(%d,%d,%d) = %d, want %d", tt.page, tt.perPage, tt.index, got, tt.want)
		}
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(1, 1, 0)
	if m.HasPrev || m.HasNext || m.PerPage != DefaultPerPage {
		t.Fatalf("unexpected meta %+v", m)
	}

	m = NewMeta(2, 3, 20)
	if !m.HasPrev || !m.HasNext || m.PrevPage != 1 || m.NextPage != 3 {
		t.Fatalf("unexpected meta %+v", m)
	}
}

func TestRequestedPage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(RequestedPage(c)))
	})

	for query, want := range map[string]string{"": "0", "?page=3": "3", "?page=abc": "0", "?page=-1": "-1"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != want {
			t.Fatalf("query %q: got %q, want %q", query, body, want)
		}
	}
}
