package enum

import "fmt"

// ResetKind selects which commission accumulator a periodic reset zeroes
type ResetKind string

const (
	ResetKindDaily   ResetKind = "daily"
	ResetKindMonthly ResetKind = "monthly"
)

// Column is the employees column the reset zeroes
func (k ResetKind) Column() string {
	switch k {
	case ResetKindDaily:
		return "daily_commission"
	case ResetKindMonthly:
		return "monthly_commission"
	}
	return ""
}

func ParseResetKind(str string) (ResetKind, error) {
	switch ResetKind(str) {
	case ResetKindDaily, ResetKindMonthly:
		return ResetKind(str), nil
	}
	return "", fmt.Errorf("unknown reset kind %q", str)
}
