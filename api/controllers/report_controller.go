/*
 * @module api/controllers/report_controller
 * @description 报表下载控制器：事件明细报表与30天每日工时报表
 * @architecture 控制器层
 * @documentReference DESIGN-000.md
 * @stateFlow 报表请求 -> 区间解析 -> Excel生成 -> 附件下载
 * @rules 区间缺省为最近30天；生成失败返回500
 * @dependencies service, github.com/xuri/excelize/v2
 */

package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"line-monitor-service/service"

	"github.com/go-chi/render"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController 报表下载控制器
type ReportController struct {
	reports *service.ReportService
}

// NewReportController 创建报表下载控制器
func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// GetEventReport 事件明细报表
// @Summary 事件明细报表
// @Description 下载[from, to)区间的状态区段明细Excel，缺省最近30天
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query int false "起始时间（Unix秒）"
// @Param to query int false "结束时间（Unix秒）"
// @Success 200 {file} binary
// @Router /report [get]
func (c *ReportController) GetEventReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now().Unix()
	from := now - 30*86400
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			render.Render(w, r, BadRequestResponse("from参数非法", err))
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			render.Render(w, r, BadRequestResponse("to参数非法", err))
			return
		}
		to = parsed
	}
	if to <= from {
		render.Render(w, r, BadRequestResponse("时间区间非法", fmt.Errorf("from=%d to=%d", from, to)))
		return
	}

	f, err := c.reports.GenerateEventReport(r.Context(), from, to)
	if err != nil {
		render.Render(w, r, InternalErrorResponse("报表生成失败", err))
		return
	}

	c.writeWorkbook(w, f, fmt.Sprintf("line_report_%s.xlsx", time.Now().Format("20060102_150405")))
}

// GetDailyReport 30天每日工时报表
// @Summary 每日工时报表
// @Description 下载最近30天每日运行/停机小时数Excel
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /report/last30days [get]
func (c *ReportController) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	f, err := c.reports.GenerateDailyReport(r.Context())
	if err != nil {
		render.Render(w, r, InternalErrorResponse("报表生成失败", err))
		return
	}

	c.writeWorkbook(w, f, fmt.Sprintf("line_daily_%s.xlsx", time.Now().Format("20060102")))
}

// writeWorkbook 以附件形式输出工作簿
func (c *ReportController) writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		// 响应头已发出，只能记日志
		log.Printf("[ReportController] 报表输出失败: %v", err)
	}
}
