package stats

import (
	"errors"
	"strings"

	"github.com/Janwang88/KIMD/internal/model"
)

// ErrNoScheduleHeader 排程表头识别失败
var ErrNoScheduleHeader = errors.New("无法识别表头，请确保 Excel 包含\"工单号\"、\"接单时间\"等列")

// 排程导出各逻辑列的关键词集合，表头扫描按包含匹配
var scheduleKeywords = map[string][]string{
	"taskNo":        {"任务单", "计划单", "排程单"},
	"projectName":   {"项目名称", "项目", "Project"},
	"orderDate":     {"接单", "接单时间", "下单日期", "日期", "Date", "制单日期"},
	"orderQty":      {"工单数量", "订单数量", "数量", "Qty", "Quantity"},
	"assemblyStart": {"组装计划开始", "装配开始"},
	"assemblyEnd":   {"组装计划结束", "装配结束"},
	"debugStart":    {"工程调试计划开始", "调试开始"},
	"debugEnd":      {"工程调试计划结束", "调试结束", "入库计划开始"},
	"shipStart":     {"出货计划开始", "发货日期", "实际出货"},
}

// 精确表头优先，避免被"领料数量/应发数量"之类的近似列覆盖
var scheduleExact = map[string][]string{
	"orderQty":      {"工单数量", "订单数量"},
	"assemblyStart": {"组装计划开始"},
	"assemblyEnd":   {"组装计划结束"},
	"debugStart":    {"工程调试计划开始"},
	"debugEnd":      {"工程调试计划结束"},
	"shipStart":     {"出货计划开始", "实际出货"},
}

type scheduleColumns map[string]int

// 匹配优先级固定，防止"发货日期"之类的列被多个字段争抢时结果不稳定
var scheduleFieldOrder = []string{
	"taskNo", "projectName", "orderDate", "orderQty",
	"assemblyStart", "assemblyEnd", "debugStart", "debugEnd", "shipStart",
}

// findScheduleHeader 前 10 行扫描排程表头，命中两个以上关键列即认定
// 工单号固定取 A 列（导出格式约定）
func findScheduleHeader(grid [][]string) (int, scheduleColumns, bool) {
	limit := len(grid)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		row := grid[i]
		cols := scheduleColumns{}
		matches := 0
		for idx, cell := range row {
			c := strings.TrimSpace(cell)
			if c == "" {
				continue
			}
			for _, field := range scheduleFieldOrder {
				if !containsAny(c, scheduleKeywords[field]) {
					continue
				}
				_, seen := cols[field]
				if !seen {
					cols[field] = idx
					matches++
				} else if containsExact(c, scheduleExact[field]) {
					cols[field] = idx
				}
				break
			}
		}
		cols["workOrderNo"] = 0
		if matches >= 2 {
			return i, cols, true
		}
	}
	return -1, nil, false
}

func containsAny(cell string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(cell, k) {
			return true
		}
	}
	return false
}

func containsExact(cell string, exact []string) bool {
	for _, e := range exact {
		if cell == e {
			return true
		}
	}
	return false
}

// ParseSchedule 从生产排程二维表提取工单列表
// 按任务单号去重；工单号与任务单号互为兜底；日期统一格式化为 YYYY-MM-DD
func ParseSchedule(grid [][]string) ([]model.WorkOrder, error) {
	headerIdx, cols, found := findScheduleHeader(grid)
	if !found {
		return nil, ErrNoScheduleHeader
	}

	getVal := func(row []string, field string) string {
		idx, ok := cols[field]
		if !ok || idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	scheduleDate := func(raw string) string {
		if raw == "" {
			return ""
		}
		if d, ok := NormalizeDate(raw); ok {
			return FormatDay(d)
		}
		return raw
	}

	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	orders := []model.WorkOrder{}
	seen := make(map[string]struct{})

	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		rawWo := getVal(row, "workOrderNo")
		rawTask := getVal(row, "taskNo")
		if rawWo == "" && rawTask == "" {
			continue
		}
		wo := rawWo
		if wo == "" {
			wo = rawTask
		}
		task := rawTask
		if task == "" {
			task = rawWo
		}
		if _, dup := seen[task]; dup {
			continue
		}
		seen[task] = struct{}{}

		orders = append(orders, model.WorkOrder{
			WorkOrderNo:   wo,
			TaskNo:        task,
			ProjectName:   getVal(row, "projectName"),
			OrderDate:     scheduleDate(getVal(row, "orderDate")),
			OrderQty:      parseFloatOrZero(getVal(row, "orderQty")),
			AssemblyStart: orDash(scheduleDate(getVal(row, "assemblyStart"))),
			AssemblyEnd:   orDash(scheduleDate(getVal(row, "assemblyEnd"))),
			DebugStart:    orDash(scheduleDate(getVal(row, "debugStart"))),
			DebugEnd:      orDash(scheduleDate(getVal(row, "debugEnd"))),
			ShipStart:     orDash(scheduleDate(getVal(row, "shipStart"))),
		})
	}

	return orders, nil
}

// MatchWorkOrder 在工单列表中按工单号/任务单号匹配（精确或包含）
func MatchWorkOrder(orders []model.WorkOrder, target string) (model.WorkOrder, bool) {
	t := strings.TrimSpace(target)
	for _, o := range orders {
		if o.WorkOrderNo == t || o.TaskNo == t {
			return o, true
		}
	}
	for _, o := range orders {
		if (o.WorkOrderNo != "" && strings.Contains(t, o.WorkOrderNo)) ||
			(o.TaskNo != "" && strings.Contains(t, o.TaskNo)) {
			return o, true
		}
	}
	return model.WorkOrder{}, false
}
