package service

import (
	"testing"

	"line-monitor-service/models"

	"github.com/stretchr/testify/assert"
)

func stateLog(ts int64, running bool, product string) *models.StateLog {
	return &models.StateLog{Timestamp: ts, IsRunning: running, ProductName: product}
}

func TestBuildSegments(t *testing.T) {
	tests := []struct {
		name           string
		events         []*models.StateLog
		from, to       int64
		initialRunning bool
		want           []Segment
	}{
		{
			name:           "无事件_整窗口为初始状态",
			events:         nil,
			from:           0,
			to:             300,
			initialRunning: true,
			want:           []Segment{{Start: 0, End: 300, Running: true}},
		},
		{
			name: "窗口内事件切分区段",
			events: []*models.StateLog{
				stateLog(100, true, ""),
				stateLog(200, false, ""),
			},
			from:           0,
			to:             300,
			initialRunning: false,
			want: []Segment{
				{Start: 0, End: 100, Running: false},
				{Start: 100, End: 200, Running: true},
				{Start: 200, End: 300, Running: false},
			},
		},
		{
			name: "窗口前事件只修正起始状态",
			events: []*models.StateLog{
				stateLog(50, true, ""),
				stateLog(150, false, ""),
			},
			from:           100,
			to:             300,
			initialRunning: false,
			want: []Segment{
				{Start: 100, End: 150, Running: true},
				{Start: 150, End: 300, Running: false},
			},
		},
		{
			name: "与当前状态相同的事件被忽略",
			events: []*models.StateLog{
				stateLog(100, false, ""),
				stateLog(200, true, ""),
			},
			from:           0,
			to:             300,
			initialRunning: false,
			want: []Segment{
				{Start: 0, End: 200, Running: false},
				{Start: 200, End: 300, Running: true},
			},
		},
		{
			name: "窗口起点处的事件直接替换首区段状态",
			events: []*models.StateLog{
				stateLog(100, true, ""),
			},
			from:           100,
			to:             300,
			initialRunning: false,
			want:           []Segment{{Start: 100, End: 300, Running: true}},
		},
		{
			name:           "空窗口返回空",
			events:         nil,
			from:           300,
			to:             300,
			initialRunning: true,
			want:           nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSegments(tt.events, tt.from, tt.to, tt.initialRunning, "", false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSegments_产品变更切分(t *testing.T) {
	events := []*models.StateLog{
		stateLog(100, true, "PVC-16"),
		stateLog(200, true, "PVC-20"),
	}

	// 报表路径：产品变更也切分
	got := BuildSegments(events, 0, 300, false, "", true)
	assert.Equal(t, []Segment{
		{Start: 0, End: 100, Running: false},
		{Start: 100, End: 200, Running: true, Product: "PVC-16"},
		{Start: 200, End: 300, Running: true, Product: "PVC-20"},
	}, got)

	// 工时路径：仅按状态切分
	got = BuildSegments(events, 0, 300, false, "", false)
	assert.Equal(t, []Segment{
		{Start: 0, End: 100, Running: false},
		{Start: 100, End: 300, Running: true, Product: "PVC-16"},
	}, got)
}

func TestMergeShortSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     []Segment
	}{
		{
			name: "短停机抖动并入前后运行区段",
			segments: []Segment{
				{Start: 0, End: 40, Running: true},
				{Start: 40, End: 50, Running: false},
				{Start: 50, End: 90, Running: true},
			},
			want: []Segment{{Start: 0, End: 90, Running: true}},
		},
		{
			name: "长区段不受影响",
			segments: []Segment{
				{Start: 0, End: 3600, Running: true},
				{Start: 3600, End: 7200, Running: false},
			},
			want: []Segment{
				{Start: 0, End: 3600, Running: true},
				{Start: 3600, End: 7200, Running: false},
			},
		},
		{
			name: "短运行抖动并入前一停机区段",
			segments: []Segment{
				{Start: 0, End: 600, Running: false},
				{Start: 600, End: 630, Running: true},
				{Start: 630, End: 1200, Running: false},
			},
			want: []Segment{{Start: 0, End: 1200, Running: false}},
		},
		{
			name: "相邻同状态同产品区段接合",
			segments: []Segment{
				{Start: 0, End: 600, Running: true, Product: "PVC-16"},
				{Start: 600, End: 1200, Running: true, Product: "PVC-16"},
			},
			want: []Segment{{Start: 0, End: 1200, Running: true, Product: "PVC-16"}},
		},
		{
			name: "不同产品的同状态区段保留切分",
			segments: []Segment{
				{Start: 0, End: 600, Running: true, Product: "PVC-16"},
				{Start: 600, End: 1200, Running: true, Product: "PVC-20"},
			},
			want: []Segment{
				{Start: 0, End: 600, Running: true, Product: "PVC-16"},
				{Start: 600, End: 1200, Running: true, Product: "PVC-20"},
			},
		},
		{
			name: "开头的短区段改判为后一状态",
			segments: []Segment{
				{Start: 0, End: 30, Running: true},
				{Start: 30, End: 86400, Running: false},
			},
			want: []Segment{{Start: 0, End: 86400, Running: false}},
		},
		{
			name: "结尾的短区段改判为前一状态",
			segments: []Segment{
				{Start: 0, End: 600, Running: false},
				{Start: 600, End: 630, Running: true},
			},
			want: []Segment{{Start: 0, End: 630, Running: false}},
		},
		{
			name:     "仅一个短区段_无相邻状态不改判",
			segments: []Segment{{Start: 0, End: 30, Running: true}},
			want:     []Segment{{Start: 0, End: 30, Running: true}},
		},
		{
			name: "短停机夹在产品切分处_并入前段保留切分",
			segments: []Segment{
				{Start: 0, End: 600, Running: true, Product: "PVC-16"},
				{Start: 600, End: 630, Running: false},
				{Start: 630, End: 1200, Running: true, Product: "PVC-20"},
			},
			want: []Segment{
				{Start: 0, End: 630, Running: true, Product: "PVC-16"},
				{Start: 630, End: 1200, Running: true, Product: "PVC-20"},
			},
		},
		{
			name: "连续抖动逐段消除",
			segments: []Segment{
				{Start: 0, End: 3600, Running: false},
				{Start: 3600, End: 3610, Running: true},
				{Start: 3610, End: 3615, Running: false},
				{Start: 3615, End: 3625, Running: true},
				{Start: 3625, End: 7200, Running: false},
			},
			want: []Segment{{Start: 0, End: 7200, Running: false}},
		},
		{
			name:     "空输入返回空",
			segments: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeShortSegments(tt.segments))
		})
	}
}

func TestComputeDailyWorkIdle_单日(t *testing.T) {
	dayStart := int64(10 * 86400)
	to := dayStart + 3600

	events := []*models.StateLog{
		stateLog(dayStart, true, ""),
		stateLog(dayStart+1800, false, ""),
	}

	days := ComputeDailyWorkIdle(events, to, 1, false)
	assert.Len(t, days, 1)
	assert.Equal(t, "1970-01-11", days[0].Date)
	// 当天按完整24小时统计，停机延续到当天结束
	assert.InDelta(t, 0.5, days[0].WorkHours, 1e-9)
	assert.InDelta(t, 23.5, days[0].IdleHours, 1e-9)
	assert.Len(t, days[0].Stops, 1)
	assert.Equal(t, dayStart+1800, days[0].Stops[0].Start)
	assert.Equal(t, dayStart+86400, days[0].Stops[0].End)
}

func TestComputeDailyWorkIdle_状态跨天延续(t *testing.T) {
	day1Start := int64(86400)
	to := 2*86400 + 7200

	// 第一天中途启动，此后没有新事件
	events := []*models.StateLog{
		stateLog(day1Start+1000, true, ""),
	}

	days := ComputeDailyWorkIdle(events, int64(to), 2, false)
	assert.Len(t, days, 2)

	// 第一天：前1000秒停机，其余运行
	assert.InDelta(t, 23.7, days[0].WorkHours, 1e-9)
	assert.InDelta(t, 0.3, days[0].IdleHours, 1e-9)

	// 第二天：运行状态延续，整天24小时运行
	assert.InDelta(t, 24.0, days[1].WorkHours, 1e-9)
	assert.InDelta(t, 0.0, days[1].IdleHours, 1e-9)
	assert.Empty(t, days[1].Stops)
}

func TestComputeDailyWorkIdle_无事件全为初始状态(t *testing.T) {
	to := int64(5*86400 + 43200)

	days := ComputeDailyWorkIdle(nil, to, 3, false)
	assert.Len(t, days, 3)
	// 每天工时+停时恒等于24小时，包括尚未结束的当天
	for i, d := range days {
		assert.InDelta(t, 0.0, d.WorkHours, 1e-9, "第%d天", i+1)
		assert.InDelta(t, 24.0, d.IdleHours, 1e-9, "第%d天", i+1)
	}
}

// 短区段合并只改当天口径，跨天延续按合并前的原始状态
func TestComputeDailyWorkIdle_跨天按原始状态延续(t *testing.T) {
	day1Start := int64(86400)
	day1End := day1Start + 86400
	to := day1End + 7200

	// 当天最后30秒启动：区段太短会被并入停机，但原始状态已是运行
	events := []*models.StateLog{
		stateLog(day1End-30, true, ""),
	}

	days := ComputeDailyWorkIdle(events, to, 2, false)
	assert.Len(t, days, 2)

	// 第一天合并后全天停机
	assert.InDelta(t, 0.0, days[0].WorkHours, 1e-9)
	assert.InDelta(t, 24.0, days[0].IdleHours, 1e-9)

	// 第二天以原始运行状态开始，延续整天
	assert.InDelta(t, 24.0, days[1].WorkHours, 1e-9)
	assert.InDelta(t, 0.0, days[1].IdleHours, 1e-9)
}
