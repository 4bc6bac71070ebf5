package service

import (
	"testing"
	"time"

	"line-monitor-service/models"

	"github.com/stretchr/testify/assert"
)

// newTestAgent 创建固定时钟的监控引擎（不接数据库）
func newTestAgent(nowSec int64) *AgentService {
	agent := NewAgentService(nil, testSettings())
	agent.now = func() time.Time { return time.Unix(nowSec, 0) }
	return agent
}

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want int64
	}{
		{"秒级时间戳原样返回", 1700000000, 1700000000},
		{"毫秒级时间戳折算为秒", 1700000000000, 1700000000},
		{"阈值边界视为秒", millisThreshold, millisThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTimestamp(tt.ts))
		})
	}
}

func TestAgentService_Ingest速度计算(t *testing.T) {
	agent := newTestAgent(1000000)

	result := agent.Ingest("line1", 10, 1000, int64Ptr(999990))
	assert.Equal(t, "line1", result.LineID)
	assert.InDelta(t, 600.0, result.Speed, 1e-9)
	assert.Equal(t, int64(999990), result.Timestamp)
	assert.InDelta(t, 600.0, agent.GetSmoothedSpeed("line1"), 1e-9)
}

func TestAgentService_Ingest缺省时间戳取本机时间(t *testing.T) {
	agent := newTestAgent(1000000)

	result := agent.Ingest("line1", 5, 1000, nil)
	assert.Equal(t, int64(1000000), result.Timestamp)

	// ts为0同样视为缺省
	result = agent.Ingest("line1", 5, 1000, int64Ptr(0))
	assert.Equal(t, int64(1000000), result.Timestamp)
}

func TestAgentService_Ingest毫秒时间戳归一化(t *testing.T) {
	agent := newTestAgent(1700000100)

	result := agent.Ingest("line1", 10, 1000, int64Ptr(1700000000000))
	assert.Equal(t, int64(1700000000), result.Timestamp)
}

func TestAgentService_未知产线默认值(t *testing.T) {
	agent := newTestAgent(1000000)

	assert.Equal(t, float64(0), agent.GetSmoothedSpeed("ghost"))
	assert.Equal(t, models.LineStateStopped, agent.GetState("ghost"))
	assert.False(t, agent.HandleOffline("ghost"))
	assert.Empty(t, agent.Snapshot())
}

// 持续高速上报经过启动延迟后切换为运行，且只产生一次切换事件
func TestAgentService_持续高速延迟后切换为运行(t *testing.T) {
	agent := newTestAgent(1000000)

	transitions := 0
	var transitionTs int64
	for ts := int64(10000); ts <= 10060; ts += 5 {
		result := agent.Ingest("line1", 100, 1000, int64Ptr(ts))
		if result.StateChanged {
			transitions++
			transitionTs = result.Timestamp
		}
	}

	assert.Equal(t, 1, transitions)
	assert.Equal(t, int64(10030), transitionTs)
	assert.Equal(t, models.LineStateRunning, agent.GetState("line1"))
}

func TestAgentService_HandleOffline(t *testing.T) {
	agent := newTestAgent(1000000)

	// 先把产线打到运行状态
	for ts := int64(10000); ts <= 10030; ts += 5 {
		agent.Ingest("line1", 100, 1000, int64Ptr(ts))
	}
	assert.Equal(t, models.LineStateRunning, agent.GetState("line1"))

	// 首次离线处理返回状态已变化，重复调用不再变化
	assert.True(t, agent.HandleOffline("line1"))
	assert.False(t, agent.HandleOffline("line1"))

	// 窗口与速度清零，状态停机
	assert.Equal(t, models.LineStateStopped, agent.GetState("line1"))
	assert.Equal(t, float64(0), agent.GetSmoothedSpeed("line1"))

	// 离线后的首个样本在干净窗口上重新测速
	result := agent.Ingest("line1", 10, 1000, int64Ptr(10100))
	assert.InDelta(t, 600.0, result.Speed, 1e-9)
}

func TestAgentService_FlushMinutes(t *testing.T) {
	agent := newTestAgent(10080) // 当前分钟起点10080

	agent.Ingest("line1", 10, 1000, int64Ptr(10000)) // 分钟9960
	agent.Ingest("line1", 10, 1000, int64Ptr(10085)) // 当前分钟

	out := agent.FlushMinutes()
	assert.Len(t, out, 1)
	assert.Equal(t, int64(9960), out[0].Minute)

	// 已刷出的分钟不会重复出现，当前分钟继续保留
	assert.Empty(t, agent.FlushMinutes())
}

func TestAgentService_UpdateSettings热更新(t *testing.T) {
	agent := newTestAgent(1000000)

	settings := testSettings()
	settings.WindowSec = 10
	agent.UpdateSettings(settings)
	assert.Equal(t, 10, agent.Settings().WindowSec)

	// 窗口缩短后旧样本立即失效
	agent.Ingest("line1", 100, 1000, int64Ptr(10000))
	result := agent.Ingest("line1", 10, 1000, int64Ptr(10020))
	assert.InDelta(t, 600.0, result.Speed, 1e-9)
}

func TestAgentService_Snapshot(t *testing.T) {
	agent := newTestAgent(1000000)

	agent.Ingest("line1", 10, 1000, int64Ptr(999990))
	snaps := agent.Snapshot()
	assert.Len(t, snaps, 1)
	assert.Equal(t, "line1", snaps[0].LineID)
	assert.InDelta(t, 600.0, snaps[0].Speed, 1e-9)
	// 最后收包时间记录的是本机时间，不是样本时间
	assert.Equal(t, int64(1000000), snaps[0].LastPacketTime)
}
