package stats

import (
	"strings"

	"github.com/Janwang88/KIMD/internal/model"
)

// Reconcile 将本地台账工时按三个工艺大类汇总，供与 KIMD 系统数据核对
// outsourceRows 为外协类记录，kimdRows 为打卡参考类记录（不计入外协合计）
func Reconcile(outsourceRows, kimdRows []model.LedgerHours) *model.ReconcileStats {
	stats := &model.ReconcileStats{
		ProcessBreakdown:         make(map[string]float64),
		KimdBreakdown:            make(map[string]float64),
		DetailedProcessBreakdown: make(map[string]model.DetailedProcess),
	}

	membership := make(map[string]string)
	for key, names := range ProcessGroups {
		for _, n := range names {
			membership[n] = key
		}
	}

	for _, row := range outsourceRows {
		process := strings.TrimSpace(row.Content)
		level := strings.TrimSpace(row.WorkerLevel)
		if level == "" {
			level = "大工"
		}
		stats.Total += row.Hours

		switch membership[process] {
		case "mixed":
			stats.Mixed += row.Hours
		case "assembly":
			stats.Assembly += row.Hours
		case "wiring":
			stats.Wiring += row.Hours
		default:
			stats.Uncategorized += row.Hours
		}

		if process == "" {
			continue
		}
		stats.ProcessBreakdown[process] += row.Hours

		d := stats.DetailedProcessBreakdown[process]
		switch level {
		case "大工":
			d.Outsource.Big += row.Hours
		case "中工":
			d.Outsource.Mid += row.Hours
		case "小工":
			d.Outsource.Small += row.Hours
		}
		d.Outsource.Total += row.Hours
		stats.DetailedProcessBreakdown[process] = d
	}

	for _, row := range kimdRows {
		process := strings.TrimSpace(row.Content)
		if process == "" {
			continue
		}
		stats.KimdBreakdown[process] += row.Hours

		d := stats.DetailedProcessBreakdown[process]
		d.Kimd += row.Hours
		stats.DetailedProcessBreakdown[process] = d
	}

	return stats
}

// SplitWorkOrders 拆分逗号/空格/换行分隔的工单号串
func SplitWorkOrders(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			out = append(out, s)
		}
	}
	return out
}
