package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean text untouched",
			input:    "ค่าอาหารกลางวัน",
			expected: "ค่าอาหารกลางวัน",
		},
		{
			name:     "single word masked",
			input:    "จ่ายค่าเหี้ยอะไรเนี่ย",
			expected: "จ่ายค่า***อะไรเนี่ย",
		},
		{
			name:     "every occurrence masked",
			input:    "เหี้ย เหี้ย เหี้ย",
			expected: "*** *** ***",
		},
		{
			name:     "multiple distinct words",
			input:    "ไอ้ควาย ส้นตีน",
			expected: "*** ***",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SanitizeDescription(tt.input))
		})
	}
}
