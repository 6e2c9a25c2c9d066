package mew

import (
	"bytes"
	"fmt"
	"testing"
	"time"
)

func Test_CatTime_NowIsEpochMillis(t *testing.T) {
	before := time.Now().UnixMilli()
	v := evalSrc(t, `CatTime.now();`)
	after := time.Now().UnixMilli()
	got := int64(v.Data.(float64))
	if got < before || got > after {
		t.Fatalf("now() out of range: %d not in [%d, %d]", got, before, after)
	}
}

func Test_CatTime_WakeUpFromMillis(t *testing.T) {
	// 2024-06-18 12:34:56.789 UTC
	const ms = int64(1718714096789)
	want := time.UnixMilli(ms).In(time.Local)

	src := fmt.Sprintf(`
		catlt d = CatTime.wakeUp(%d);
		purr(CatTime.fullYear(d));
		purr(CatTime.month(d));
		purr(CatTime.day(d));
		purr(CatTime.weekday(d));
		purr(CatTime.hours(d));
		purr(CatTime.minutes(d));
		purr(CatTime.seconds(d));
		purr(CatTime.milliseconds(d));
	`, ms)

	wantLines(t, src,
		fmt.Sprint(want.Year()),
		fmt.Sprint(int(want.Month())-1),
		fmt.Sprint(want.Day()),
		fmt.Sprint(int(want.Weekday())),
		fmt.Sprint(want.Hour()),
		fmt.Sprint(want.Minute()),
		fmt.Sprint(want.Second()),
		"789",
	)
}

func Test_CatTime_ToMeowFormat(t *testing.T) {
	const ms = int64(1718714096789)
	want := time.UnixMilli(ms).In(time.Local).Format("2006-01-02 15:04:05")
	v := evalSrc(t, fmt.Sprintf(`CatTime.toMeow(CatTime.wakeUp(%d));`, ms))
	wantStr(t, v, want)
}

func Test_CatTime_DateDisplayMatchesToMeow(t *testing.T) {
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	const src = `catlt d = CatTime.wakeUp(0); purr(d); purr(CatTime.toMeow(d));`
	if _, err := ip.EvalSource(src); err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := time.UnixMilli(0).In(time.Local).Format("2006-01-02 15:04:05")
	if got := out.String(); got != want+"\n"+want+"\n" {
		t.Fatalf("display/toMeow mismatch: %q (want %q twice)", got, want)
	}
}

func Test_CatTime_WakeUpSameMillisAreEqual(t *testing.T) {
	// wakeUp(ms) preserves the millisecond instant.
	wantBool(t, evalSrc(t, `
		catlt d = CatTime.wakeUp(123456789);
		CatTime.wakeUp(123456789) == d;
	`), true)
}

func Test_CatTime_AccessorsRequireADate(t *testing.T) {
	runErr(t, `CatTime.fullYear(42);`, DiagType)
	runErr(t, `CatTime.toMeow("yesterday");`, DiagType)
	runErr(t, `CatTime.month({});`, DiagType)
}
