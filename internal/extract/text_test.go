package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"smart quote kept", "It\u2019s", "It\u2019s"},
		{"mojibake apostrophe", "Itâ€™s", "It's"},
		{"mojibake dash", "supply â€“ demand", "supply - demand"},
		{"nbsp and zero width", "a\u00a0b\u200bc", "a bc"},
		{"line endings", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"nfc", "cafe\u0301", "caf\u00e9"},
		{"bom", "\ufeffAnswers", "Answers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestFormatExplanation(t *testing.T) {
	in := "  a   b \n\n\t c\t\td  \n   \n"
	assert.Equal(t, "a b\nc d", FormatExplanation(in))
	assert.Equal(t, "", FormatExplanation(" \n \n"))
}
