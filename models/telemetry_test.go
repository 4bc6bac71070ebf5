package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func i64(v int64) *int64 { return &v }

func TestTelemetryRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     TelemetryRequest
		wantErr bool
	}{
		{
			name:    "合法请求",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(42), Duration: i64(1000)},
			wantErr: false,
		},
		{
			name:    "零脉冲合法",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(0), Duration: i64(1000)},
			wantErr: false,
		},
		{
			name:    "缺产线ID",
			req:     TelemetryRequest{Pulses: i64(42), Duration: i64(1000)},
			wantErr: true,
		},
		{
			name:    "缺脉冲数",
			req:     TelemetryRequest{LineID: "line1", Duration: i64(1000)},
			wantErr: true,
		},
		{
			name:    "负脉冲数",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(-1), Duration: i64(1000)},
			wantErr: true,
		},
		{
			name:    "缺采样时长",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(42)},
			wantErr: true,
		},
		{
			name:    "零采样时长",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(42), Duration: i64(0)},
			wantErr: true,
		},
		{
			name:    "时间戳可选",
			req:     TelemetryRequest{LineID: "line1", Pulses: i64(42), Duration: i64(1000), Ts: i64(1756400000)},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
