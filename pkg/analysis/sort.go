package analysis

import (
	"fmt"
	"strings"

	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// Comparer orders two ranges for presentation.  Comparers never touch
// counters; sorting happens after counting and only affects output.
type Comparer func(a, b *model.Range) int

// Sorter applies a chain of sort keys to the range table.  Keys are
// evaluated in order; the first non-equal result wins, and a full tie
// preserves the original relative order.
type Sorter struct {
	keys []Comparer
}

// NewSorter builds a sorter from a sort key string such as "nip".
func NewSorter(fam ipaddr.Family, keys string) (*Sorter, error) {
	s := &Sorter{}
	for i := 0; i < len(keys); i++ {
		cmp, err := FieldSelector(keys[i], fam)
		if err != nil {
			return nil, err
		}
		s.keys = append(s.keys, cmp)
	}
	return s, nil
}

// FieldSelector maps a sort key character to its comparer.
func FieldSelector(c byte, fam ipaddr.Family) (Comparer, error) {
	switch c {
	case 'n':
		return func(a, b *model.Range) int {
			return strings.Compare(a.SharedNet.Name, b.SharedNet.Name)
		}, nil
	case 'i':
		return func(a, b *model.Range) int {
			return fam.Compare(a.First, b.First)
		}, nil
	case 'm':
		return func(a, b *model.Range) int {
			return compFloat(fam.RangeSize(a.First, a.Last), fam.RangeSize(b.First, b.Last))
		}, nil
	case 'c':
		return func(a, b *model.Range) int {
			return compFloat(float64(a.Used), float64(b.Used))
		}, nil
	case 'p':
		return func(a, b *model.Range) int {
			return compFloat(retPercent(fam, a), retPercent(fam, b))
		}, nil
	case 't':
		return func(a, b *model.Range) int {
			return compFloat(float64(a.Touched), float64(b.Touched))
		}, nil
	case 'T':
		return func(a, b *model.Range) int {
			return compFloat(retTC(a), retTC(b))
		}, nil
	case 'e':
		return func(a, b *model.Range) int {
			return compFloat(retTCPercent(fam, a), retTCPercent(fam, b))
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownSortKey, string(c))
}

func compFloat(f1, f2 float64) int {
	switch {
	case f1 < f2:
		return -1
	case f1 > f2:
		return 1
	}
	return 0
}

func retPercent(fam ipaddr.Family, r *model.Range) float64 {
	return float64(r.Used) / fam.RangeSize(r.First, r.Last)
}

func retTC(r *model.Range) float64 {
	return float64(r.Used + r.Touched)
}

func retTCPercent(fam ipaddr.Family, r *model.Range) float64 {
	return retTC(r) / fam.RangeSize(r.First, r.Last)
}

func (s *Sorter) compare(a, b *model.Range) int {
	for _, key := range s.keys {
		if ret := key(a, b); ret != 0 {
			return ret
		}
	}
	return 0
}

// Merge sort split size.
const minMergeSize = 8

// Sort orders ranges by the key chain.  Partitions below minMergeSize
// use insertion ordering; larger partitions merge recursively.  The
// result is stable.
func (s *Sorter) Sort(ranges []*model.Range) {
	if len(s.keys) == 0 || len(ranges) < 2 {
		return
	}
	temp := make([]*model.Range, len(ranges))
	s.mergeSort(ranges, temp)
}

func (s *Sorter) mergeSort(orig, temp []*model.Range) {
	size := len(orig)
	if size < minMergeSize {
		for left := 1; left < size; left++ {
			hold := orig[left]
			right := left - 1
			for ; right >= 0 && s.compare(orig[right], hold) > 0; right-- {
				orig[right+1] = orig[right]
			}
			orig[right+1] = hold
		}
		return
	}
	half := size / 2
	s.mergeSort(orig[:half], temp)
	s.mergeSort(orig[half:], temp)
	left, right, i := 0, half, 0
	for left < half && right < size {
		// Ties take the left element to keep the sort stable.
		if s.compare(orig[left], orig[right]) <= 0 {
			temp[i] = orig[left]
			left++
		} else {
			temp[i] = orig[right]
			right++
		}
		i++
	}
	for ; left < half; left++ {
		temp[i] = orig[left]
		i++
	}
	for ; right < size; right++ {
		temp[i] = orig[right]
		i++
	}
	copy(orig, temp[:size])
}

// Flip reverses the final presentation order in full.  Applied after
// the key sort when reverse ordering is requested.
func Flip(ranges []*model.Range) {
	for i, j := 0, len(ranges)-1; i < j; i, j = i+1, j-1 {
		ranges[i], ranges[j] = ranges[j], ranges[i]
	}
}
