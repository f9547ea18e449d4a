package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	_, _, ok := ParsePaginationParams(queryContext(""))
	assert.False(t, ok)

	page, size, ok := ParsePaginationParams(queryContext("page=3&size=5"))
	assert.True(t, ok)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, size)

	page, size, ok = ParsePaginationParams(queryContext("page=-1&size=1000"))
	assert.True(t, ok)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(2, 10, 25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = CalculateSliceIndices(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(9, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(922337203685477582, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(1, 10, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, PaginationInfo{CurrentPage: 2, TotalPages: 3, PageSize: 10, TotalItems: 25}, info)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}
