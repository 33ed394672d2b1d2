package progress

import (
	"math"
	"time"
)

// startOfUTCDay 返回给定时刻所在UTC日历天的零点。
func startOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// diffInUTCDays 计算两个时刻之间的UTC日历天差 (a - b)。
// 比较的是日历天而不是经过的小时数：23:59和次日00:01相差1天。
func diffInUTCDays(a, b time.Time) int {
	const hoursPerDay = 24
	return int(startOfUTCDay(a).Sub(startOfUTCDay(b)).Hours() / hoursPerDay)
}

// maxPointsPerAnswer 是单次答题可计入的积分上限。
// 超出int范围的有限浮点值在转换时会溢出为负数，必须在转换前饱和。
const maxPointsPerAnswer = math.MaxInt32

// sanitizePoints 消毒客户端提交的积分：
// 非有限值或非正值归零，过大的值饱和到上限，其余四舍五入为整数。
func sanitizePoints(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0
	}
	if value > maxPointsPerAnswer {
		return maxPointsPerAnswer
	}
	return int(math.Round(value))
}

// nextStreakValue 计算一次答对后的新连续天数。
//
//	从未玩过        -> 1
//	同一UTC天       -> max(1, 当前streak)
//	恰好隔了一天     -> 当前streak + 1
//	隔了不止一天     -> 1 (streak断裂，重新开始)
//
// lastPlayedAt晚于now（时钟回拨）时按同一天处理，streak保持不变：
// 上游数据源未定义这种情况，这里选择不惩罚玩家的安全默认值。
func nextStreakValue(currentStreak int, lastPlayedAt *time.Time, now time.Time) int {
	if lastPlayedAt == nil {
		return 1
	}

	diff := diffInUTCDays(now, *lastPlayedAt)
	switch {
	case diff <= 0:
		if currentStreak < 1 {
			return 1
		}
		return currentStreak
	case diff == 1:
		return currentStreak + 1
	default:
		return 1
	}
}
