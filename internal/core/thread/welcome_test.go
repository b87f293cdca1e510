package thread

import (
	"strings"
	"testing"
)

func TestIsWelcome(t *testing.T) {
	cases := []struct {
		name  string
		flag  bool
		text  string
		first bool
		want  bool
	}{
		{"greeting", false, "Merhaba, size nasıl yardımcı olabilirim?", true, true},
		{"turkish upper case", false, "HOŞ GELDİNİZ", true, true},
		{"dotless i folds", false, "NASIL YARDIMCI OLABİLİRİM", true, true},
		{"english", false, "Hello there", true, true},
		{"not first agent", false, "Merhaba", false, false},
		{"platform flag", true, "Sipariş bilgileriniz", false, true},
		{"no greeting", false, "Kargonuz yarın teslim edilecek", true, false},
		{"too long", false, "Merhaba " + strings.Repeat("a", 150), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsWelcome(tc.flag, tc.text, tc.first); got != tc.want {
				t.Fatalf("IsWelcome(%v, %q, %v) = %v", tc.flag, tc.text, tc.first, got)
			}
		})
	}
}
