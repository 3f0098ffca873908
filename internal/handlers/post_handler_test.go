package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"comma separated", []string{"go, web ,,go"}, []string{"go", "web"}},
		{"repeated fields", []string{"go", "#web", "go"}, []string{"go", "web"}},
		{"multibyte within limit", []string{strings.Repeat("語", 17)}, []string{strings.Repeat("語", 17)}},
		{"multibyte at limit", []string{strings.Repeat("é", maxTagLength)}, []string{strings.Repeat("é", maxTagLength)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTags(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, tooLong := range []string{strings.Repeat("x", maxTagLength+1), strings.Repeat("語", maxTagLength+1)} {
		_, err := normalizeTags([]string{tooLong})
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestNormalizeTagName(t *testing.T) {
	assert.Equal(t, "go", normalizeTagName(" #go "))
	assert.Equal(t, "go", normalizeTagName("go"))
	assert.Equal(t, "#go", normalizeTagName("##go"))
}

func TestParsePaging(t *testing.T) {
	e := echo.New()
	newCtx := func(query string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/posts?"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	skip, limit, err := parsePaging(newCtx(""))
	require.NoError(t, err)
	assert.Equal(t, 0, skip)
	assert.Equal(t, defaultPageSize, limit)

	skip, limit, err = parsePaging(newCtx("skip=40&limit=500"))
	require.NoError(t, err)
	assert.Equal(t, 40, skip)
	assert.Equal(t, maxPageSize, limit)

	for _, q := range []string{"skip=-1", "limit=0", "limit=ten"} {
		_, _, err = parsePaging(newCtx(q))
		assert.Error(t, err, q)
	}
}

func TestParseIDParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	c.SetParamValues("42")
	id, err := parseIDParam(c, "id", "post")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, v := range []string{"0", "abc", "-3"} {
		c.SetParamValues(v)
		_, err = parseIDParam(c, "id", "post")
		assert.Error(t, err, v)
	}
}
