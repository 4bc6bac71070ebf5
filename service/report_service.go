/*
 * @module service/report_service
 * @description 报表服务：基于状态日志生成Excel事件明细报表与30天每日工时报表
 * @architecture 服务层
 * @documentReference DESIGN-000.md
 * @stateFlow 状态日志查询 -> 区段构建与合并 -> Excel工作簿渲染
 * @rules 事件明细按产品变更切分区段；每日报表复用引擎的按天工时统计
 * @dependencies github.com/xuri/excelize/v2, repository
 */

package service

import (
	"context"
	"fmt"
	"time"

	"line-monitor-service/models"
	"line-monitor-service/repository"

	"github.com/xuri/excelize/v2"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// ReportService 报表服务
type ReportService struct {
	agent    *AgentService
	repos    repository.RepositoryManager
	settings *SettingsService
}

// NewReportService 创建报表服务
func NewReportService(agent *AgentService, repos repository.RepositoryManager, settings *SettingsService) *ReportService {
	return &ReportService{
		agent:    agent,
		repos:    repos,
		settings: settings,
	}
}

// lineIDs 报表覆盖的产线：默认产线表与数据库快照的并集，保持roster顺序
func (s *ReportService) lineIDs(ctx context.Context) ([]string, error) {
	ids := models.DefaultLineRoster()
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	statuses, err := s.repos.LineStatus().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list line statuses: %w", err)
	}
	for _, status := range statuses {
		if !known[status.LineID] {
			ids = append(ids, status.LineID)
			known[status.LineID] = true
		}
	}
	return ids, nil
}

// GenerateEventReport 生成[from, to)区间的事件明细报表：
// 汇总表 + 每条产线一张区段明细表（产品变更也切分区段）。
func (s *ReportService) GenerateEventReport(ctx context.Context, from, to int64) (*excelize.File, error) {
	if to <= from {
		return nil, fmt.Errorf("invalid report range: from=%d to=%d", from, to)
	}

	settings := s.settings.Current()
	lineIDs, err := s.lineIDs(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const summarySheet = "汇总"
	f.SetSheetName("Sheet1", summarySheet)
	if err := f.SetSheetRow(summarySheet, "A1",
		&[]interface{}{"产线", "名称", "运行(小时)", "停机(小时)", "停机次数"}); err != nil {
		return nil, err
	}

	summaryRow := 2
	for _, lineID := range lineIDs {
		segments, err := s.lineSegments(ctx, lineID, from, to)
		if err != nil {
			return nil, err
		}

		var workSec, idleSec int64
		var stopCount int
		for _, seg := range segments {
			if seg.Running {
				workSec += seg.Duration()
			} else {
				idleSec += seg.Duration()
				stopCount++
			}
		}

		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", summaryRow), &[]interface{}{
			lineID,
			settings.DisplayName(lineID),
			roundHours(workSec),
			roundHours(idleSec),
			stopCount,
		}); err != nil {
			return nil, err
		}
		summaryRow++

		if err := s.writeLineSheet(f, lineID, segments); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// lineSegments 构建单条产线的合并后区段（报表口径：产品变更切分）
func (s *ReportService) lineSegments(ctx context.Context, lineID string, from, to int64) ([]Segment, error) {
	events, err := s.repos.StateLog().FindRange(ctx, lineID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query state logs for %s: %w", lineID, err)
	}

	initialRunning := false
	initialProduct := ""
	prev, err := s.repos.StateLog().LatestBefore(ctx, lineID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query initial state for %s: %w", lineID, err)
	}
	if prev != nil {
		initialRunning = prev.IsRunning
		initialProduct = prev.ProductName
	}

	raw := BuildSegments(events, from, to, initialRunning, initialProduct, true)
	return MergeShortSegments(raw), nil
}

// writeLineSheet 写入单条产线的区段明细表
func (s *ReportService) writeLineSheet(f *excelize.File, lineID string, segments []Segment) error {
	if _, err := f.NewSheet(lineID); err != nil {
		return err
	}
	if err := f.SetSheetRow(lineID, "A1",
		&[]interface{}{"开始时间", "结束时间", "状态", "时长(分钟)", "产品"}); err != nil {
		return err
	}

	row := 2
	for _, seg := range segments {
		state := "停机"
		if seg.Running {
			state = "运行"
		}
		if err := f.SetSheetRow(lineID, fmt.Sprintf("A%d", row), &[]interface{}{
			time.Unix(seg.Start, 0).UTC().Format(reportTimeLayout),
			time.Unix(seg.End, 0).UTC().Format(reportTimeLayout),
			state,
			seg.Duration() / 60,
			seg.Product,
		}); err != nil {
			return err
		}
		row++
	}
	return nil
}

// GenerateDailyReport 生成最近30天的每日工时报表，每条产线一张表
func (s *ReportService) GenerateDailyReport(ctx context.Context) (*excelize.File, error) {
	lineIDs, err := s.lineIDs(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	for i, lineID := range lineIDs {
		if i == 0 {
			f.SetSheetName("Sheet1", lineID)
		} else if _, err := f.NewSheet(lineID); err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(lineID, "A1",
			&[]interface{}{"日期", "运行(小时)", "停机(小时)", "停机次数"}); err != nil {
			return nil, err
		}

		days, err := s.agent.GetDailyWorkIdle(ctx, lineID, 30)
		if err != nil {
			return nil, err
		}

		row := 2
		for _, day := range days {
			if err := f.SetSheetRow(lineID, fmt.Sprintf("A%d", row), &[]interface{}{
				day.Date,
				day.WorkHours,
				day.IdleHours,
				len(day.Stops),
			}); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f, nil
}
