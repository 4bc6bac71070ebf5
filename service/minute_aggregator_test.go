package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinuteAggregator_DrainAverages(t *testing.T) {
	agg := newMinuteAggregator()

	// 同一分钟内的样本取平均
	agg.Record("line1", 60, 100)
	agg.Record("line1", 90, 200)
	agg.Record("line2", 70, 50)

	out := agg.Drain(120)
	assert.Len(t, out, 2)
	assert.Equal(t, MinuteAverage{LineID: "line1", Minute: 60, Speed: 150}, out[0])
	assert.Equal(t, MinuteAverage{LineID: "line2", Minute: 60, Speed: 50}, out[1])
	assert.Equal(t, 0, agg.Len())
}

func TestMinuteAggregator_当前分钟保留(t *testing.T) {
	agg := newMinuteAggregator()

	agg.Record("line1", 125, 100) // 分钟120
	assert.Empty(t, agg.Drain(120))
	assert.Equal(t, 1, agg.Len())

	// 下一分钟才刷出
	out := agg.Drain(180)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(120), out[0].Minute)
}

func TestMinuteAggregator_迟到样本丢弃(t *testing.T) {
	agg := newMinuteAggregator()

	agg.Record("line1", 70, 100)
	out := agg.Drain(120)
	assert.Len(t, out, 1)

	// 已刷出分钟的迟到样本不再重开桶
	agg.Record("line1", 80, 999)
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, agg.Drain(180))
}

func TestMinuteAggregator_输出按产线与分钟排序(t *testing.T) {
	agg := newMinuteAggregator()

	agg.Record("line2", 60, 1)
	agg.Record("line1", 120, 2)
	agg.Record("line1", 60, 3)

	out := agg.Drain(180)
	assert.Len(t, out, 3)
	assert.Equal(t, "line1", out[0].LineID)
	assert.Equal(t, int64(60), out[0].Minute)
	assert.Equal(t, "line1", out[1].LineID)
	assert.Equal(t, int64(120), out[1].Minute)
	assert.Equal(t, "line2", out[2].LineID)
}
