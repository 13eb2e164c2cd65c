package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// FolderScheme selects the granularity of the date-based destination tree.
type FolderScheme int

const (
	SchemeYear FolderScheme = iota
	SchemeYearMonth
	SchemeYearMonthDay
	SchemeHierarchical
)

// ParseScheme maps a config string to a FolderScheme.
func ParseScheme(value string) (FolderScheme, error) {
	switch value {
	case "year":
		return SchemeYear, nil
	case "year-month":
		return SchemeYearMonth, nil
	case "year-month-day":
		return SchemeYearMonthDay, nil
	case "hierarchical":
		return SchemeHierarchical, nil
	default:
		return 0, fmt.Errorf("unknown folder scheme %q (year, year-month, year-month-day, hierarchical)", value)
	}
}

func (s FolderScheme) String() string {
	switch s {
	case SchemeYear:
		return "year"
	case SchemeYearMonth:
		return "year-month"
	case SchemeYearMonthDay:
		return "year-month-day"
	case SchemeHierarchical:
		return "hierarchical"
	default:
		return "unknown"
	}
}

// RelativePath formats a capture date into the destination folder path for
// this scheme. Pure and total; components are computed in UTC so the same
// date never maps to two folders.
func (s FolderScheme) RelativePath(t time.Time) string {
	t = t.UTC()
	switch s {
	case SchemeYearMonth:
		return filepath.Join(t.Format("2006"), t.Format("01"))
	case SchemeYearMonthDay:
		return filepath.Join(t.Format("2006"), t.Format("01"), t.Format("02"))
	case SchemeHierarchical:
		return filepath.Join(t.Format("2006"), t.Format("2006_01"), t.Format("2006_01_02"))
	default:
		return t.Format("2006")
	}
}
