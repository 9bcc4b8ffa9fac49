package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	cases := []struct {
		page, limit        string
		wantLimit, wantOff int
	}{
		{"", "", 20, 0},
		{"2", "10", 10, 10},
		{"0", "-5", 20, 0},
		{"3", "1000", 100, 200},
		{"abc", "x", 20, 0},
	}
	for _, tc := range cases {
		limit, offset := Pagination(tc.page, tc.limit)
		assert.Equal(t, tc.wantLimit, limit, "page=%q limit=%q", tc.page, tc.limit)
		assert.Equal(t, tc.wantOff, offset, "page=%q limit=%q", tc.page, tc.limit)
	}
}

func TestOptionalFloat(t *testing.T) {
	v, err := OptionalFloat("")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = OptionalFloat(" 49.5 ")
	assert.NoError(t, err)
	if assert.NotNil(t, v) {
		assert.Equal(t, 49.5, *v)
	}

	for _, bad := range []string{"cheap", "NaN", "nan", "Inf", "-Inf", "1e400", "4,5"} {
		v, err := OptionalFloat(bad)
		assert.ErrorIs(t, err, ErrInvalidNumber, bad)
		assert.Nil(t, v, bad)
	}
}
