package types

import (
	"fmt"
	"time"
)

// TimeSpan counts 100 nanosecond ticks.
type TimeSpan int64

const TicksPerSecond TimeSpan = 10_000_000

func TimeSpanFromDuration(d time.Duration) TimeSpan {
	return TimeSpan(d / 100)
}

func (ts TimeSpan) Duration() time.Duration {
	return time.Duration(ts) * 100
}

func (ts TimeSpan) Seconds() float64 {
	return float64(ts) / float64(TicksPerSecond)
}

type DurationKind int32

const (
	DurationTimeSpan DurationKind = iota
	DurationAutomatic
	DurationForever
)

type Duration struct {
	Kind     DurationKind
	TimeSpan TimeSpan
}

var (
	AutomaticDuration = Duration{Kind: DurationAutomatic}
	ForeverDuration   = Duration{Kind: DurationForever}
)

func DurationFromTimeSpan(ts TimeSpan) Duration {
	return Duration{Kind: DurationTimeSpan, TimeSpan: ts}
}

func (d Duration) HasTimeSpan() bool {
	return d.Kind == DurationTimeSpan
}

func (d Duration) String() string {
	switch d.Kind {
	case DurationAutomatic:
		return "Automatic"
	case DurationForever:
		return "Forever"
	}
	return d.TimeSpan.Duration().String()
}

type KeyTimeType int32

const (
	KeyTimeUniform KeyTimeType = iota
	KeyTimePaced
	KeyTimePercent
	KeyTimeTimeSpan
)

type KeyTime struct {
	Type     KeyTimeType
	Percent  float64
	TimeSpan TimeSpan
}

func KeyTimeFromTimeSpan(ts TimeSpan) KeyTime {
	return KeyTime{Type: KeyTimeTimeSpan, TimeSpan: ts}
}

func KeyTimeFromPercent(p float64) (KeyTime, error) {
	if p < 0 || p > 1 {
		return KeyTime{}, fmt.Errorf("key time percent %v out of range [0, 1]", p)
	}
	return KeyTime{Type: KeyTimePercent, Percent: p}, nil
}

type RepeatKind int32

const (
	RepeatCount RepeatKind = iota
	RepeatDuration
	RepeatForever
)

type RepeatBehavior struct {
	Kind     RepeatKind
	Count    float64
	Duration TimeSpan
}

var ForeverRepeatBehavior = RepeatBehavior{Kind: RepeatForever}

func RepeatBehaviorFromCount(count float64) RepeatBehavior {
	return RepeatBehavior{Kind: RepeatCount, Count: count}
}

func RepeatBehaviorFromDuration(ts TimeSpan) RepeatBehavior {
	return RepeatBehavior{Kind: RepeatDuration, Duration: ts}
}

type GridUnitType int32

const (
	GridUnitAuto GridUnitType = iota
	GridUnitPixel
	GridUnitStar
)

type GridLength struct {
	Value    float64
	UnitType GridUnitType
}

func (gl GridLength) IsAuto() bool {
	return gl.UnitType == GridUnitAuto
}
