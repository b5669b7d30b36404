package dos

import "time"

// EncodeTime packs t into the 16-bit DOS date and time fields.
//
// Date: bits 15-9 year since 1980, bits 8-5 month, bits 4-0 day.
// Time: bits 15-11 hour, bits 10-5 minute. Seconds are not stored.
// Years outside 1980-2107 are clamped to the representable range.
func EncodeTime(t time.Time) (date, clock uint16) {
	year := t.Year()
	switch {
	case year < 1980:
		return 1<<5 | 1, 0
	case year > 2107:
		return 127<<9 | 12<<5 | 31, 23<<11 | 59<<5
	}

	date = uint16(year-1980)<<9 |
		uint16(t.Month())<<5 |
		uint16(t.Day())
	clock = uint16(t.Hour())<<11 |
		uint16(t.Minute())<<5
	return date, clock
}

// DecodeTime unpacks DOS date and time fields into a time in loc.
// A zero day or month is invalid and yields the zero time.
func DecodeTime(date, clock uint16, loc *time.Location) time.Time {
	day := int(date & 0x1F)
	month := int(date >> 5 & 0x0F)
	year := 1980 + int(date>>9)
	if day == 0 || month == 0 {
		return time.Time{}
	}

	hour := int(clock >> 11)
	minute := int(clock >> 5 & 0x3F)
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
}

// Year, Month and Day expose the raw date fields the way listings print them.
func Year(date uint16) int  { return 1980 + int(date>>9) }
func Month(date uint16) int { return int(date >> 5 & 0x0F) }
func Day(date uint16) int   { return int(date & 0x1F) }

func Hour(clock uint16) int   { return int(clock >> 11) }
func Minute(clock uint16) int { return int(clock >> 5 & 0x3F) }
