package availability

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadTemplate = errors.New("неверный формат шаблона рабочих часов")

// ParseWorkingHours разбирает шаблон вида "9:00am-8:00pm" в пару минут от
// полуночи [open, close). Любое отклонение от формата — ошибка: при
// нечитаемом шаблоне мастер считается закрытым, а не открытым.
func ParseWorkingHours(template string) (open, close int, err error) {
	parts := strings.Split(strings.TrimSpace(template), "-")
	if len(parts) != 2 {
		return 0, 0, ErrBadTemplate
	}

	open, err = parseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}

	close, err = parseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}

	if close <= open {
		return 0, 0, ErrBadTemplate
	}

	return open, close, nil
}

// WithinWorkingHours проверяет, попадает ли минута дня кандидата в [open, close).
// Пустой шаблон означает выходной.
func WithinWorkingHours(minuteOfDay int, template *string) bool {
	if template == nil || strings.TrimSpace(*template) == "" {
		return false
	}

	open, close, err := ParseWorkingHours(*template)
	if err != nil {
		return false
	}

	return minuteOfDay >= open && minuteOfDay < close
}

func parseClock(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	var meridiem string
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem = "am"
	case strings.HasSuffix(s, "pm"):
		meridiem = "pm"
	default:
		return 0, ErrBadTemplate
	}
	s = strings.TrimSuffix(s, meridiem)

	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrBadTemplate
	}

	if h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, ErrBadTemplate
	}

	if h == 12 {
		h = 0
	}
	if meridiem == "pm" {
		h += 12
	}

	return h*60 + m, nil
}
