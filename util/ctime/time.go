package ctime

import (
	"errors"
	"strconv"
	"time"

	"github.com/chenjie199234/Dictionary/util/common"
)

var ErrDurationFormatWrong = errors.New("Duration's format wrong,should be number(unit nanosecond) or string(format: 1h2m3s4ms5us6ns)")

// Duration can be unmarshaled from a json number(nanosecond) or a json string(1h2m3s)
type Duration time.Duration

func (d Duration) StdDuration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if len(data) == 0 {
		*d = Duration(0)
		return nil
	}
	if temp, e := time.ParseDuration(common.BTS(data)); e == nil {
		*d = Duration(temp)
		return nil
	}
	if num, e := strconv.ParseInt(common.BTS(data), 10, 64); e == nil {
		*d = Duration(num)
		return nil
	}
	return ErrDurationFormatWrong
}
func (d Duration) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 50)
	b = append(b, '"')
	b = appendDuration(b, d.StdDuration())
	b = append(b, '"')
	return b, nil
}
func (d Duration) String() string {
	return string(appendDuration(make([]byte, 0, 50), d.StdDuration()))
}

var units = []struct {
	d    time.Duration
	name string
}{
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
	{time.Millisecond, "ms"},
	{time.Microsecond, "us"},
	{time.Nanosecond, "ns"},
}

func appendDuration(b []byte, dd time.Duration) []byte {
	if dd == 0 {
		return append(b, "0s"...)
	}
	if dd < 0 {
		b = append(b, '-')
		dd = -dd
	}
	for _, u := range units {
		if dd/u.d > 0 {
			b = strconv.AppendInt(b, int64(dd/u.d), 10)
			b = append(b, u.name...)
			dd = dd % u.d
		}
	}
	return b
}
