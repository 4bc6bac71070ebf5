package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings RuntimeSettings
		wantErr  bool
		check    func(t *testing.T, s RuntimeSettings)
	}{
		{
			name:     "默认参数合法",
			settings: DefaultRuntimeSettings(),
			wantErr:  false,
		},
		{
			name: "非法窗口与延迟回退默认值",
			settings: RuntimeSettings{
				WindowSec:  0,
				VStart:     0.5,
				VStop:      0.3,
				DelayStart: -1,
				DelayStop:  -5,
			},
			wantErr: false,
			check: func(t *testing.T, s RuntimeSettings) {
				assert.Equal(t, DefaultWindowSec, s.WindowSec)
				assert.Equal(t, DefaultDelayStartSec, s.DelayStart)
				assert.Equal(t, DefaultDelayStopSec, s.DelayStop)
				assert.Equal(t, DefaultOfflineTimeout, s.OfflineTimeout)
			},
		},
		{
			name: "延迟为0合法不回退",
			settings: RuntimeSettings{
				WindowSec:      60,
				VStart:         0.5,
				VStop:          0.3,
				DelayStart:     0,
				DelayStop:      0,
				OfflineTimeout: 60,
				GraphHours:     24,
			},
			wantErr: false,
			check: func(t *testing.T, s RuntimeSettings) {
				assert.Equal(t, 0, s.DelayStart)
				assert.Equal(t, 0, s.DelayStop)
			},
		},
		{
			name: "越界的曲线跨度回退为24",
			settings: RuntimeSettings{
				WindowSec:  60,
				VStart:     0.5,
				VStop:      0.3,
				GraphHours: 13,
			},
			wantErr: false,
			check: func(t *testing.T, s RuntimeSettings) {
				assert.Equal(t, DefaultGraphHours, s.GraphHours)
			},
		},
		{
			name: "48小时曲线跨度合法",
			settings: RuntimeSettings{
				WindowSec:  60,
				VStart:     0.5,
				VStop:      0.3,
				GraphHours: 48,
			},
			wantErr: false,
			check: func(t *testing.T, s RuntimeSettings) {
				assert.Equal(t, 48, s.GraphHours)
			},
		},
		{
			name: "启动阈值不大于停机阈值_拒绝",
			settings: RuntimeSettings{
				WindowSec: 60,
				VStart:    0.3,
				VStop:     0.5,
			},
			wantErr: true,
		},
		{
			name: "阈值相等_拒绝",
			settings: RuntimeSettings{
				WindowSec: 60,
				VStart:    0.3,
				VStop:     0.3,
			},
			wantErr: true,
		},
		{
			name: "启动阈值非正_拒绝",
			settings: RuntimeSettings{
				WindowSec: 60,
				VStart:    0,
				VStop:     0,
			},
			wantErr: true,
		},
		{
			name: "nil集合初始化为空值",
			settings: RuntimeSettings{
				WindowSec: 60,
				VStart:    0.5,
				VStop:     0.3,
			},
			wantErr: false,
			check: func(t *testing.T, s RuntimeSettings) {
				assert.Equal(t, DefaultLineRoster(), s.EnabledLines)
				assert.NotNil(t, s.LineNames)
				assert.NotNil(t, s.Products)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.settings)
			}
		})
	}
}

func TestRuntimeSettings_DisplayName(t *testing.T) {
	s := DefaultRuntimeSettings()
	s.LineNames = map[string]string{"line1": "1号挤出线", "line2": ""}

	assert.Equal(t, "1号挤出线", s.DisplayName("line1"))
	assert.Equal(t, "line2", s.DisplayName("line2"))
	assert.Equal(t, "line9", s.DisplayName("line9"))
}

func TestRuntimeSettings_IsLineEnabled(t *testing.T) {
	s := DefaultRuntimeSettings()
	assert.True(t, s.IsLineEnabled("line1"))
	assert.True(t, s.IsLineEnabled("line13"))
	assert.False(t, s.IsLineEnabled("line99"))

	s.EnabledLines = []string{"line3"}
	assert.False(t, s.IsLineEnabled("line1"))
	assert.True(t, s.IsLineEnabled("line3"))
}

func TestDefaultLineRoster(t *testing.T) {
	roster := DefaultLineRoster()
	assert.Len(t, roster, DefaultLineCount)
	assert.Equal(t, "line1", roster[0])
	assert.Equal(t, "line13", roster[len(roster)-1])
}

func TestLineStateOf(t *testing.T) {
	assert.Equal(t, LineStateRunning, LineStateOf(true))
	assert.Equal(t, LineStateStopped, LineStateOf(false))
	assert.True(t, LineStateRunning.IsRunning())
	assert.False(t, LineStateStopped.IsRunning())
}
