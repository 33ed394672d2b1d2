package progress

import (
	"math"
	"testing"
	"time"
)

func TestDiffInUTCDays(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same instant",
			a:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "same calendar day",
			a:    time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 10, 0, 1, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "across midnight counts as one day",
			a:    time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "multi day gap",
			a:    time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "negative when b is later",
			a:    time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC),
			want: -2,
		},
	}

	for _, tc := range cases {
		if got := diffInUTCDays(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: diffInUTCDays = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSanitizePoints(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{10, 10},
		{10.4, 10},
		{10.5, 11},
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		// 超出int范围的有限值必须饱和，而不是在转换时溢出为负数
		{1e19, maxPointsPerAnswer},
		{math.MaxFloat64, maxPointsPerAnswer},
		{maxPointsPerAnswer + 1, maxPointsPerAnswer},
	}

	for _, tc := range cases {
		if got := sanitizePoints(tc.in); got != tc.want {
			t.Errorf("sanitizePoints(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNextStreakValue(t *testing.T) {
	now := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 3, 12, 1, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	future := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	if got := nextStreakValue(7, nil, now); got != 1 {
		t.Errorf("首次答对应当开始新的streak: got %d", got)
	}
	if got := nextStreakValue(3, &sameDay, now); got != 3 {
		t.Errorf("同一天不应改变streak: got %d", got)
	}
	if got := nextStreakValue(0, &sameDay, now); got != 1 {
		t.Errorf("同一天的streak应当以1为下限: got %d", got)
	}
	if got := nextStreakValue(3, &yesterday, now); got != 4 {
		t.Errorf("隔天答对应当递增streak: got %d", got)
	}
	if got := nextStreakValue(9, &lastWeek, now); got != 1 {
		t.Errorf("间隔超过一天应当重置streak: got %d", got)
	}
	// 时钟回拨按同一天处理，不惩罚玩家
	if got := nextStreakValue(5, &future, now); got != 5 {
		t.Errorf("时钟回拨不应改变streak: got %d", got)
	}
}
