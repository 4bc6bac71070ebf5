package service

import (
	"testing"

	"line-monitor-service/models"

	"github.com/stretchr/testify/assert"
)

func testSettings() models.RuntimeSettings {
	s := models.DefaultRuntimeSettings()
	s.VStart = 0.5
	s.VStop = 0.3
	s.DelayStart = 30
	s.DelayStop = 30
	return s
}

func TestEvaluateLineState(t *testing.T) {
	settings := testSettings()

	tests := []struct {
		name        string
		state       models.LineState
		hold        HoldState
		speed       float64
		ts          int64
		wantState   models.LineState
		wantHold    HoldState
		wantChanged bool
	}{
		{
			name:        "停机且速度低于启动阈值_不计时",
			state:       models.LineStateStopped,
			hold:        HoldState{},
			speed:       0.2,
			ts:          100,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{},
			wantChanged: false,
		},
		{
			name:        "停机且速度达到启动阈值_开始计时不切换",
			state:       models.LineStateStopped,
			hold:        HoldState{},
			speed:       1.0,
			ts:          100,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{Kind: HoldAwaitingRun, Since: 100},
			wantChanged: false,
		},
		{
			name:        "启动计时未到期_保持原计时起点",
			state:       models.LineStateStopped,
			hold:        HoldState{Kind: HoldAwaitingRun, Since: 100},
			speed:       1.0,
			ts:          120,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{Kind: HoldAwaitingRun, Since: 100},
			wantChanged: false,
		},
		{
			name:        "启动计时到期_切换为运行并清零计时",
			state:       models.LineStateStopped,
			hold:        HoldState{Kind: HoldAwaitingRun, Since: 100},
			speed:       1.0,
			ts:          130,
			wantState:   models.LineStateRunning,
			wantHold:    HoldState{},
			wantChanged: true,
		},
		{
			name:        "启动计时中速度回落_取消计时",
			state:       models.LineStateStopped,
			hold:        HoldState{Kind: HoldAwaitingRun, Since: 100},
			speed:       0.4,
			ts:          110,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{},
			wantChanged: false,
		},
		{
			name:        "运行中速度处于死区_维持运行不计时",
			state:       models.LineStateRunning,
			hold:        HoldState{},
			speed:       0.4,
			ts:          200,
			wantState:   models.LineStateRunning,
			wantHold:    HoldState{},
			wantChanged: false,
		},
		{
			name:        "运行且速度低于停机阈值_开始计时不切换",
			state:       models.LineStateRunning,
			hold:        HoldState{},
			speed:       0.1,
			ts:          200,
			wantState:   models.LineStateRunning,
			wantHold:    HoldState{Kind: HoldAwaitingStop, Since: 200},
			wantChanged: false,
		},
		{
			name:        "停机计时到期_切换为停机并清零计时",
			state:       models.LineStateRunning,
			hold:        HoldState{Kind: HoldAwaitingStop, Since: 200},
			speed:       0.0,
			ts:          230,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{},
			wantChanged: true,
		},
		{
			name:        "停机计时中速度回升_取消计时",
			state:       models.LineStateRunning,
			hold:        HoldState{Kind: HoldAwaitingStop, Since: 200},
			speed:       0.35,
			ts:          210,
			wantState:   models.LineStateRunning,
			wantHold:    HoldState{},
			wantChanged: false,
		},
		{
			name:        "速度恰好等于停机阈值_触发停机计时",
			state:       models.LineStateRunning,
			hold:        HoldState{},
			speed:       0.3,
			ts:          300,
			wantState:   models.LineStateRunning,
			wantHold:    HoldState{Kind: HoldAwaitingStop, Since: 300},
			wantChanged: false,
		},
		{
			name:        "速度恰好等于启动阈值_触发启动计时",
			state:       models.LineStateStopped,
			hold:        HoldState{},
			speed:       0.5,
			ts:          300,
			wantState:   models.LineStateStopped,
			wantHold:    HoldState{Kind: HoldAwaitingRun, Since: 300},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, hold, changed := EvaluateLineState(tt.state, tt.hold, tt.speed, tt.ts, settings)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantHold, hold)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

// 持续高速上报时，切换时刻应恰好落在延迟到期的那一秒
func TestEvaluateLineState_持续高速恰好在延迟到期时切换(t *testing.T) {
	settings := testSettings()

	state := models.LineStateStopped
	hold := HoldState{}
	var changedAt int64 = -1

	for ts := int64(0); ts <= 60; ts += 5 {
		var changed bool
		state, hold, changed = EvaluateLineState(state, hold, 1.0, ts, settings)
		if changed && changedAt < 0 {
			changedAt = ts
		}
	}

	assert.Equal(t, int64(30), changedAt)
	assert.Equal(t, models.LineStateRunning, state)
}

// 延迟为0时首个达标样本立即切换
func TestEvaluateLineState_零延迟立即切换(t *testing.T) {
	settings := testSettings()
	settings.DelayStart = 0

	state, hold, changed := EvaluateLineState(models.LineStateStopped, HoldState{}, 0.8, 500, settings)
	assert.Equal(t, models.LineStateRunning, state)
	assert.Equal(t, HoldState{}, hold)
	assert.True(t, changed)
}

// 反复在阈值两侧抖动时不应发生切换
func TestEvaluateLineState_阈值附近抖动不切换(t *testing.T) {
	settings := testSettings()

	state := models.LineStateRunning
	hold := HoldState{}
	speeds := []float64{0.2, 0.4, 0.1, 0.6, 0.25, 0.45}

	for i, speed := range speeds {
		var changed bool
		state, hold, changed = EvaluateLineState(state, hold, speed, int64(i*10), settings)
		assert.False(t, changed)
	}
	assert.Equal(t, models.LineStateRunning, state)
}
