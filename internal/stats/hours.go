package stats

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Janwang88/KIMD/internal/model"
)

// 工时统计的三个固定工艺大类，按工艺名称精确归类
var ProcessGroups = map[string][]string{
	"mixed":    {"项目管理", "领料", "上线准备", "总装", "清洁", "打包"},
	"assembly": {"组装-返工", "模组组装", "整机接气", "出货"},
	"wiring":   {"接线-返工", "电控配线", "整机接线", "通电通气"},
}

// 表头无法识别时返回的结构化错误，由调用方转成用户提示
var (
	ErrNoProcessHeader = errors.New("无法识别表头，请确认Excel包含\"工艺名称\"或\"工序名称\"列")
	ErrNoHoursColumn   = errors.New("无法识别工时列，请确认Excel包含\"实际工时\"、\"生产计划用时\"或\"KIMD工时\"")
)

type hoursColumns struct {
	process   int
	plan      int
	kimd      int
	outsource int
	actual    int
}

// findHoursHeader 在前 10 行内定位工时表头并建立列映射
// 表头行可能不在首行（KIMD 导出常带合并单元格的标题行）
func findHoursHeader(grid [][]string) (int, hoursColumns, bool) {
	cols := hoursColumns{process: -1, plan: -1, kimd: -1, outsource: -1, actual: -1}
	limit := len(grid)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		row := grid[i]
		rowCols := hoursColumns{process: -1, plan: -1, kimd: -1, outsource: -1, actual: -1}
		for idx, cell := range row {
			c := strings.TrimSpace(cell)
			switch {
			case strings.Contains(c, "工艺名称") || strings.Contains(c, "工序名称"):
				rowCols.process = idx
			case c == "生产计划用时":
				rowCols.plan = idx
			case c == "KIMD工时" || strings.Contains(c, "KIMD"):
				rowCols.kimd = idx
			case c == "外协工时":
				rowCols.outsource = idx
			case c == "实际工时":
				rowCols.actual = idx
			case strings.Contains(c, "生产工时") && rowCols.actual == -1:
				rowCols.actual = idx
			}
		}
		if rowCols.process != -1 {
			return i, rowCols, true
		}
	}
	return -1, cols, false
}

// ComputeHours 从工时明细二维表计算三大类工时统计
// 工艺名称不在固定分组内、为空或为合计行的行一律跳过；
// 行实际工时优先取"实际工时"列，为零时回退为 KIMD+外协。
func ComputeHours(grid [][]string) (*model.HoursStats, error) {
	if len(grid) < 2 {
		return emptyHoursStats(), nil
	}

	headerIdx, cols, found := findHoursHeader(grid)
	if !found {
		return nil, ErrNoProcessHeader
	}
	if cols.actual == -1 && cols.plan == -1 && cols.kimd == -1 {
		return nil, ErrNoHoursColumn
	}

	stats := emptyHoursStats()
	stats.ProjectName = detectProjectName(grid)

	groups := map[string]*model.HoursGroup{
		"mixed":    &stats.Mixed,
		"assembly": &stats.Assembly,
		"wiring":   &stats.Wiring,
	}
	membership := make(map[string]string)
	for key, names := range ProcessGroups {
		for _, n := range names {
			membership[n] = key
		}
	}

	cell := func(row []string, idx int) float64 {
		if idx < 0 || idx >= len(row) {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return 0
		}
		return f
	}

	for i := headerIdx + 1; i < len(grid); i++ {
		row := grid[i]
		if cols.process >= len(row) {
			continue
		}
		process := strings.TrimSpace(row[cols.process])
		if process == "" || process == "工艺名称" || process == "合计" || process == "总计" {
			continue
		}
		key, ok := membership[process]
		if !ok {
			continue
		}
		g := groups[key]

		plan := cell(row, cols.plan)
		kimd := cell(row, cols.kimd)
		outsource := cell(row, cols.outsource)
		reported := cell(row, cols.actual)

		actual := reported
		if actual <= 0 {
			actual = kimd + outsource
		}

		g.Plan += plan
		g.Kimd += kimd
		g.Outsource += outsource
		g.Total += actual

		pb := g.ProcessBreakdown[process]
		pb.Kimd += kimd
		pb.Outsource += outsource
		g.ProcessBreakdown[process] = pb

		stats.TotalHours += actual
	}

	return stats, nil
}

func emptyHoursStats() *model.HoursStats {
	newGroup := func(key string) model.HoursGroup {
		names := ProcessGroups[key]
		return model.HoursGroup{
			Processes:        append([]string{}, names...),
			ProcessBreakdown: make(map[string]model.ProcessHours),
		}
	}
	return &model.HoursStats{
		Assembly: newGroup("assembly"),
		Wiring:   newGroup("wiring"),
		Mixed:    newGroup("mixed"),
	}
}
