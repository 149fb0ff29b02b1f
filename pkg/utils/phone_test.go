package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"leading zero", "0356176878", "+84356176878"},
		{"bare country code", "84356176878", "+84356176878"},
		{"already normalized", "+84356176878", "+84356176878"},
		{"surrounding whitespace", " 0356176878 ", "+84356176878"},
		{"not a phone number", "abcdef", "abcdef"},
		{"foreign format untouched", "+15551234567", "+15551234567"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhone(tc.input))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "84356176878", DigitsOnly("+84 356 176-878"))
	assert.Equal(t, "", DigitsOnly("abc"))
}
