package table

import (
	"strconv"
	"time"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
)

// Value is a single cell. The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Year returns a date value truncated to January 1st of year.
func Year(year int) Value {
	return Value{kind: KindDate, date: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the raw string of a String value and "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Num returns the number held by v. ok is false for non-numeric kinds.
func (v Value) Num() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Time returns the date held by v. ok is false for non-date kinds.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

func (v Value) key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.str
	case KindNumber:
		return "n:" + v.String()
	case KindDate:
		return "d:" + v.String()
	default:
		return "null"
	}
}
