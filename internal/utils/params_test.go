package utils_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-airport/internal/domain"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestURLID(t *testing.T) {
	id, err := utils.URLID(requestWithParam("id", "42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-1", ""} {
		_, err := utils.URLID(requestWithParam("id", raw), "id")
		assert.True(t, domain.IsValidation(err), raw)
	}
}

func TestIDList(t *testing.T) {
	ids, err := utils.IDList("departure-airport", "1, 4,7")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 7}, ids)

	ids, err = utils.IDList("departure-airport", "")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = utils.IDList("departure-airport", "1,x")
	assert.True(t, domain.IsValidation(err))
}

func TestDate(t *testing.T) {
	d, err := utils.Date("date", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), *d)

	d, err = utils.Date("date", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = utils.Date("date", "05.06.2025")
	assert.True(t, domain.IsValidation(err))
}

func TestParseOrdering(t *testing.T) {
	allowed := map[string]string{"departure_time": "departure_time", "id": "id"}
	fallback := utils.Ordering{Column: "id"}

	o, err := utils.ParseOrdering("", allowed, fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, o)

	o, err = utils.ParseOrdering("-departure_time", allowed, fallback)
	require.NoError(t, err)
	assert.Equal(t, utils.Ordering{Column: "departure_time", Desc: true}, o)

	_, err = utils.ParseOrdering("password", allowed, fallback)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "departure_time, id")
}
