package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow_Add(t *testing.T) {
	tests := []struct {
		name      string
		samples   []pulseSample
		windowSec int
		wantSpeed float64
		wantLen   int
	}{
		{
			name:      "单样本_速度为脉冲除以秒数乘60",
			samples:   []pulseSample{{pulses: 10, durationMs: 1000, ts: 100}},
			windowSec: 60,
			wantSpeed: 600,
			wantLen:   1,
		},
		{
			name: "多样本_按窗口内总量计算",
			samples: []pulseSample{
				{pulses: 5, durationMs: 2000, ts: 100},
				{pulses: 5, durationMs: 2000, ts: 102},
			},
			windowSec: 60,
			wantSpeed: 150, // 10脉冲 / 4秒 * 60
			wantLen:   2,
		},
		{
			name: "窗口外旧样本被裁剪",
			samples: []pulseSample{
				{pulses: 100, durationMs: 1000, ts: 100},
				{pulses: 10, durationMs: 1000, ts: 200},
			},
			windowSec: 60,
			wantSpeed: 600,
			wantLen:   1,
		},
		{
			name: "窗口边界样本保留",
			samples: []pulseSample{
				{pulses: 10, durationMs: 1000, ts: 100},
				{pulses: 10, durationMs: 1000, ts: 160},
			},
			windowSec: 60,
			wantSpeed: 600, // 20脉冲 / 2秒 * 60
			wantLen:   2,
		},
		{
			name:      "零脉冲_速度为0",
			samples:   []pulseSample{{pulses: 0, durationMs: 1000, ts: 100}},
			windowSec: 60,
			wantSpeed: 0,
			wantLen:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w slidingWindow
			var speed float64
			for _, s := range tt.samples {
				speed = w.Add(s.pulses, s.durationMs, s.ts, tt.windowSec)
			}
			assert.InDelta(t, tt.wantSpeed, speed, 1e-9)
			assert.Equal(t, tt.wantLen, w.Len())
		})
	}
}

func TestSlidingWindow_Reset(t *testing.T) {
	var w slidingWindow
	w.Add(10, 1000, 100, 60)
	w.Add(10, 1000, 101, 60)
	assert.Equal(t, 2, w.Len())

	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, float64(0), w.speed())
}
