package thread

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// greetings mark an automatic agent greeting when found in a short first message
var greetings = []string{
	"merhaba",
	"hoş geldiniz",
	"hoşgeldiniz",
	"nasıl yardımcı olabilirim",
	"selam",
	"welcome",
	"hello",
}

// welcomeMaxRunes bounds the length of a greeting; longer texts are real replies
const welcomeMaxRunes = 150

// lowerTR lowercases with Turkish rules so "İ" and "I" fold the way agents type them
func lowerTR(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// IsWelcome reports whether an agent message is an automatic greeting
// The platform flag always wins; otherwise only the thread's first agent message can qualify
func IsWelcome(platformFlag bool, text string, isFirstAgent bool) bool {
	if platformFlag {
		return true
	}
	if !isFirstAgent || utf8.RuneCountInString(text) >= welcomeMaxRunes {
		return false
	}
	lower := lowerTR(text)
	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}
