package availability

import (
	"strizh/config"
)

// Policy — сетка записи салона: границы рабочего дня, шаг слотов и обед.
// Значения в минутах от полуночи.
type Policy struct {
	OpenMinute      int
	CloseMinute     int
	SlotStepMinutes int
	BreakStart      int
	BreakMinutes    int
}

// Обед выбивает из сетки только кандидата 13:00: слот 13:30
// предлагается, перерыв длится один шаг сетки.
func DefaultPolicy() Policy {
	return Policy{
		OpenMinute:      9 * 60,
		CloseMinute:     20 * 60,
		SlotStepMinutes: 30,
		BreakStart:      13 * 60,
		BreakMinutes:    30,
	}
}

func PolicyFromConfig(cfg config.BookingConfig) Policy {
	return Policy{
		OpenMinute:      cfg.OpenMinute,
		CloseMinute:     cfg.CloseMinute,
		SlotStepMinutes: cfg.SlotStepMinutes,
		BreakStart:      cfg.BreakStart,
		BreakMinutes:    cfg.BreakMinutes,
	}
}

// candidateMinutes возвращает минуты начала кандидатов: каждые SlotStepMinutes
// от открытия до закрытия (не включая), минус обеденный перерыв.
func (p Policy) candidateMinutes() []int {
	var minutes []int
	for m := p.OpenMinute; m < p.CloseMinute; m += p.SlotStepMinutes {
		if m >= p.BreakStart && m < p.BreakStart+p.BreakMinutes {
			continue
		}
		minutes = append(minutes, m)
	}
	return minutes
}
