package services

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"shop-dashboard/internal/models"
)

// Counter tallies occurrences per key. Unseen keys count as zero and keys
// come out in the order they were first added.
type Counter struct {
	index map[string]int
	out   models.Counts
}

func NewCounter() *Counter {
	return &Counter{index: make(map[string]int)}
}

func (c *Counter) Inc(key string) {
	c.Add(key, 1)
}

func (c *Counter) Add(key string, n int) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.out)
		c.index[key] = i
		c.out = append(c.out, models.KeyCount{Key: key})
	}
	c.out[i].Count += n
}

func (c *Counter) Counts() models.Counts {
	return slices.Clone(c.out)
}

// Summer is the monetary counterpart of Counter.
type Summer struct {
	index map[string]int
	out   models.Amounts
}

func NewSummer() *Summer {
	return &Summer{index: make(map[string]int)}
}

func (s *Summer) Add(key string, amount decimal.Decimal) {
	i, ok := s.index[key]
	if !ok {
		i = len(s.out)
		s.index[key] = i
		s.out = append(s.out, models.KeyAmount{Key: key, Amount: decimal.Zero})
	}
	s.out[i].Amount = s.out[i].Amount.Add(amount)
}

func (s *Summer) Amounts() models.Amounts {
	return slices.Clone(s.out)
}

// CountBy counts records per extracted key. Records for which key reports
// false are skipped.
func CountBy[T any](records []T, key func(T) (string, bool)) models.Counts {
	c := NewCounter()
	for _, r := range records {
		if k, ok := key(r); ok {
			c.Inc(k)
		}
	}
	return c.Counts()
}

// SumBy sums value over records per extracted key.
func SumBy[T any](records []T, key func(T) (string, bool), value func(T) decimal.Decimal) models.Amounts {
	s := NewSummer()
	for _, r := range records {
		if k, ok := key(r); ok {
			s.Add(k, value(r))
		}
	}
	return s.Amounts()
}

// compareNumericKeys orders keys by their decimal value. Keys that are not
// numbers sort after all numeric ones, lexically among themselves.
func compareNumericKeys(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	switch {
	case errA == nil && errB == nil:
		if c := da.Cmp(db); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func sortCountsNumeric(c models.Counts) models.Counts {
	slices.SortStableFunc(c, func(a, b models.KeyCount) int { return compareNumericKeys(a.Key, b.Key) })
	return c
}

func sortAmountsNumeric(a models.Amounts) models.Amounts {
	slices.SortStableFunc(a, func(x, y models.KeyAmount) int { return compareNumericKeys(x.Key, y.Key) })
	return a
}

func sortCountsLexical(c models.Counts) models.Counts {
	slices.SortStableFunc(c, func(a, b models.KeyCount) int { return strings.Compare(a.Key, b.Key) })
	return c
}

func sortAmountsLexical(a models.Amounts) models.Amounts {
	slices.SortStableFunc(a, func(x, y models.KeyAmount) int { return strings.Compare(x.Key, y.Key) })
	return a
}
