package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=0", Params{Page: 1, Limit: 20, Offset: 0}},
		{"?page=abc&limit=500", Params{Page: 1, Limit: 100, Offset: 0}},
		{"?page=9223372036854775807&limit=2", Params{Page: MaxPage, Limit: 2, Offset: (MaxPage - 1) * 2}},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/items"+tt.query, nil)
		assert.Equal(t, tt.want, Parse(c), tt.query)
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Slice(items, New(2, 2))
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, Meta{Page: 2, Limit: 2, Total: 5}, meta)

	page, _ = Slice(items, New(3, 2))
	assert.Equal(t, []int{5}, page)

	page, meta = Slice(items, New(9, 2))
	assert.NotNil(t, page)
	assert.Empty(t, page)
	assert.Equal(t, 5, meta.Total)

	assert.NotPanics(t, func() {
		page, _ = Slice(items, New(math.MaxInt, 2))
	})
	assert.Empty(t, page)
	page, _ = Slice(items, Params{Page: 1, Limit: 2, Offset: -4})
	assert.NotNil(t, page)
	assert.Empty(t, page)
}
