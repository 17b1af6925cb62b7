package httpx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"?page=3", 3, false},
		{"?page=0", 0, true},
		{"?page=abc", 0, true},
		{"?page=9223372036854775807", 0, true},
		{"?page=99999999999999999999", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			p, err := ParsePage(httptest.NewRequest("GET", "/v1/titles/"+tc.query, nil), 20)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Number)
			assert.Equal(t, (tc.want-1)*20, p.Window().Offset)
		})
	}
}

func TestBuild(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/v1/genres/?search=dr&page=2", nil)
	out, err := Build(r, Pager{Number: 2, Size: 2}, 5, []string{"c", "d"})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Count)
	require.NotNil(t, out.Next)
	assert.Equal(t, "http://example.com/v1/genres/?page=3&search=dr", *out.Next)
	require.NotNil(t, out.Previous)
	assert.Equal(t, "http://example.com/v1/genres/?search=dr", *out.Previous)

	empty, err := Build[string](httptest.NewRequest("GET", "/v1/genres/", nil), Pager{Number: 1, Size: 2}, 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Results)
	assert.Nil(t, empty.Next)
	assert.Nil(t, empty.Previous)

	_, err = Build[string](r, Pager{Number: 4, Size: 2}, 5, nil)
	assert.ErrorIs(t, err, ErrInvalidPage)
}
