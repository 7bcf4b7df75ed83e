package normalize

import (
	"regexp"
	"strconv"
)

var (
	salaryRangeRegex  = regexp.MustCompile(`(\d+)K-(\d+)K`)
	salarySingleRegex = regexp.MustCompile(`(\d+)K`)
)

// ResolveSalary reduces a compensation label such as "120K-150K Annually"
// to one annual figure: the midpoint of a range, or the single value.
// The caller is expected to pass only text already carrying the annual
// marker; anything unparseable yields nil.
func ResolveSalary(text *string) *int {
	if text == nil {
		return nil
	}

	if match := salaryRangeRegex.FindStringSubmatch(*text); match != nil {
		low, errLow := thousands(match[1])
		high, errHigh := thousands(match[2])
		if errLow != nil || errHigh != nil {
			return nil
		}
		avg := (low + high) / 2
		return &avg
	}

	if match := salarySingleRegex.FindStringSubmatch(*text); match != nil {
		value, err := thousands(match[1])
		if err != nil {
			return nil
		}
		return &value
	}

	return nil
}

func thousands(digits string) (int, error) {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n) * 1000, nil
}
