package otid

import "context"

// Weekday follows the OpenTherm convention: 1 = Monday .. 7 = Sunday.
type Weekday uint8

// WriteDayTime writes Data-ID 20: day-of-week in the top 3 bits of
// the high byte, hour in the low 5 bits of the high byte, minute in
// the low byte. Kept as an independent writer (rather than folded
// into a single "set clock" call some versions of the original source
// use). Nothing in this repository calls it — see SPEC_FULL.md's note
// that the boiler's own RTC is authoritative; cmd/otcli can still write
// Data-IDs 20-22 by hand as raw values.
func (c *Client) WriteDayTime(ctx context.Context, day Weekday, hour, minute uint8) error {
	if err := checkRangeU8(IDDayTime, "hour", hour, 0, 23); err != nil {
		return err
	}
	if err := checkRangeU8(IDDayTime, "minute", minute, 0, 59); err != nil {
		return err
	}
	hi := uint8(day&0x7)<<5 | hour&0x1f
	_, err := c.write(ctx, IDDayTime, hiLo(hi, minute))
	return err
}

// WriteDate writes Data-ID 21: month in the high byte, day-of-month
// in the low byte.
func (c *Client) WriteDate(ctx context.Context, month, day uint8) error {
	if err := checkRangeU8(IDDate, "month", month, 1, 12); err != nil {
		return err
	}
	if err := checkRangeU8(IDDate, "day", day, 1, 31); err != nil {
		return err
	}
	_, err := c.write(ctx, IDDate, hiLo(month, day))
	return err
}

// WriteYear writes Data-ID 22, the full year as a 16-bit value.
func (c *Client) WriteYear(ctx context.Context, year uint16) error {
	if err := checkRange(IDYear, "year", float64(year), 2000, 2099); err != nil {
		return err
	}
	_, err := c.write(ctx, IDYear, year)
	return err
}
