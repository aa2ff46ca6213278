package common

import (
	"time"
)

// Timer is the clock used for message headers. Tests substitute a fixed one.
type Timer interface {
	Now() time.Time
}

type RealTimerImpl struct{}

var _ Timer = new(RealTimerImpl)

func (t *RealTimerImpl) Now() time.Time {
	return time.Now()
}

type TestTimerImpl struct {
	NowTime time.Time
}

func (t *TestTimerImpl) Now() time.Time {
	return t.NowTime
}

var realTimer = RealTimerImpl{}

func NewTimer() *RealTimerImpl {
	return &realTimer
}

func NewTestTimer(nowTime time.Time) *TestTimerImpl {
	return &TestTimerImpl{NowTime: nowTime}
}
