// builtin_time.go — the CatTime namespace.
//
// Date values carry a time.Time with millisecond resolution. Component
// extraction and toMeow use the host's local time zone; month is 0–11 and
// weekday 0–6 with Sunday = 0.
package mew

import "time"

const dateLayout = "2006-01-02 15:04:05"

// formatDate renders the toMeow form, which is also the display form of a
// date value.
func formatDate(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// dateArg extracts the receiver date of a CatTime accessor.
func dateArg(name string, args []Value) time.Time {
	d := argOr(args, 0)
	if d.Tag != VTDate {
		fail(DiagType, "CatTime."+name+" requires a date, got "+typeName(d))
	}
	return d.Data.(time.Time)
}

func registerTimeBuiltins(ip *Interpreter) {
	cattime := &Namespace{Name: "CatTime", Members: NewMapObject()}

	// now() — milliseconds since the Unix epoch.
	cattime.Members.Set("now", NativeVal("now", func(_ *Interpreter, _ []Value) Value {
		return Num(float64(time.Now().UnixMilli()))
	}))

	// wakeUp() — a date for the current moment; wakeUp(ms) — a date from a
	// millisecond count.
	cattime.Members.Set("wakeUp", NativeVal("wakeUp", func(_ *Interpreter, args []Value) Value {
		if len(args) == 0 || args[0].Tag == VTUndefined {
			return DateVal(time.Now())
		}
		ms := toNumber(args[0])
		return DateVal(time.UnixMilli(int64(ms)))
	}))

	component := func(name string, f func(time.Time) int) {
		cattime.Members.Set(name, NativeVal(name, func(_ *Interpreter, args []Value) Value {
			t := dateArg(name, args).In(time.Local)
			return Num(float64(f(t)))
		}))
	}
	component("fullYear", func(t time.Time) int { return t.Year() })
	component("month", func(t time.Time) int { return int(t.Month()) - 1 })
	component("day", func(t time.Time) int { return t.Day() })
	component("weekday", func(t time.Time) int { return int(t.Weekday()) })
	component("hours", func(t time.Time) int { return t.Hour() })
	component("minutes", func(t time.Time) int { return t.Minute() })
	component("seconds", func(t time.Time) int { return t.Second() })
	component("milliseconds", func(t time.Time) int { return t.Nanosecond() / int(time.Millisecond) })

	// toMeow(d) — "YYYY-MM-DD HH:MM:SS".
	cattime.Members.Set("toMeow", NativeVal("toMeow", func(_ *Interpreter, args []Value) Value {
		return Str(formatDate(dateArg("toMeow", args)))
	}))

	defineCore(ip, "CatTime", NamespaceVal(cattime))
}
