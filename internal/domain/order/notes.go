package order

import (
	"regexp"
	"strings"
)

const (
	notesRestaurantLabel = "Restaurant: "
	notesPhoneLabel      = "Phone: "
)

// 管理画面がメモから拾うのと同じラベル (英語 / アラビア語)。
var (
	restaurantLinePattern = regexp.MustCompile(`(?i)(?:اسم\s+المطعم|restaurant)\s*[:：]\s*(.+)`)
	phoneLinePattern      = regexp.MustCompile(`(?i)(?:هاتف|جوال|phone|tel)\s*[:：]\s*(.+)`)
)

// ComposeNotes appends "Restaurant: X" and "Phone: Y" lines to the free-text
// notes when the value is non-empty and no labelled line already carries it.
// Calling it again on its own output returns the same text.
func ComposeNotes(notes, restaurantName, phone string) string {
	out := strings.TrimSpace(notes)
	out = appendMention(out, notesRestaurantLabel, restaurantName, restaurantLinePattern, strings.ToLower)
	out = appendMention(out, notesPhoneLabel, phone, phoneLinePattern, digitsOnly)
	return out
}

func appendMention(notes, label, value string, labelled *regexp.Regexp, norm func(string) string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return notes
	}
	if mentioned(notes, value, labelled, norm) {
		return notes
	}
	if notes == "" {
		return label + value
	}
	return notes + "\n" + label + value
}

func mentioned(notes, value string, labelled *regexp.Regexp, norm func(string) string) bool {
	want := norm(value)
	if want == "" {
		return false
	}
	for _, line := range strings.Split(notes, "\n") {
		m := labelled.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if norm(strings.TrimSpace(m[1])) == want {
			return true
		}
	}
	return false
}

// digitsOnly は "+966 50-000" と "96650000" を同じ番号として比較するため。
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return b.String()
}
