package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+[0-9]{10,15}$`)
)

const minPasswordLength = 8

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone принимает телефон в произвольном написании
// ("8 (900) 123-45-67") и проверяет его нормализованную форму.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(NormalizePhone(phone))
}

func ValidatePassword(password string) bool {
	return len(password) >= minPasswordLength
}

// NormalizePhone приводит телефон к виду +7XXXXXXXXXX: убирает
// скобки, дефисы и пробелы, заменяет ведущую восьмерку на +7.
func NormalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)

	switch {
	case strings.HasPrefix(digits, "+"):
		return digits
	case strings.HasPrefix(digits, "8") && len(digits) == 11:
		return "+7" + digits[1:]
	default:
		return "+" + digits
	}
}

// FormatName приводит имя к виду с заглавной буквы, сохраняя дефисы
// в составных фамилиях.
func FormatName(name string) string {
	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, sub := range subparts {
			if sub == "" {
				continue
			}
			runes := []rune(strings.ToLower(sub))
			runes[0] = unicode.ToUpper(runes[0])
			subparts[j] = string(runes)
		}
		parts[i] = strings.Join(subparts, "-")
	}

	return strings.Join(parts, " ")
}
