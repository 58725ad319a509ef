package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Janwang88/KIMD/internal/model"
)

// Options 统计口径配置
type Options struct {
	ProcPrefix     string // 加工件料号前缀
	CutoffHour     int    // 下单截止时点，超过则顺延一天起算
	StdCycleLimit  int    // 标准件周期达标天数
	ProcCycleLimit int    // 加工件周期达标天数
}

// DefaultOptions 默认统计口径
func DefaultOptions() Options {
	return Options{
		ProcPrefix:     "7.",
		CutoffHour:     15,
		StdCycleLimit:  10,
		ProcCycleLimit: 7,
	}
}

// partAggregate 单个料号的聚合状态，仅在一次统计内存活
type partAggregate struct {
	isProc            bool
	totalRows         int
	deliveredRows     int
	hasIqcReceipt     bool
	hasInStock        bool
	receiptEarliest   time.Time
	hasReceipt        bool
	dueEarliest       time.Time
	hasDue            bool
	orderDateEarliest time.Time
	hasOrderDate      bool
	purchaseReply     time.Time
	hasPurchaseReply  bool
	name              string
	model             string
	qty               float64
}

// Compute 对物料明细原始行计算交付/准时/周期统计
// records 为以首行表头为键的行映射，grid 为含表头前导行的完整二维表
func Compute(records []model.RawRow, grid [][]string, opts Options) *model.StatsResult {
	headers := []string{}
	if len(records) > 0 {
		for k := range records[0] {
			headers = append(headers, k)
		}
	}
	fm := ResolveFields(headers)

	partAgg := make(map[string]*partAggregate)
	partOrder := []string{}

	var stdOnTimeOk, stdOnTimeNg, stdOnTimeChecked int
	var procOnTimeOk, procOnTimeNg, procOnTimeChecked int
	var stdRows, procRows int

	for _, r := range records {
		part := CellString(r[fm.Part])
		if part == "" {
			continue
		}
		isProc := strings.HasPrefix(part, opts.ProcPrefix)
		if isProc {
			procRows++
		} else {
			stdRows++
		}

		agg, ok := partAgg[part]
		if !ok {
			agg = &partAggregate{isProc: isProc}
			partAgg[part] = agg
			partOrder = append(partOrder, part)
		}

		if agg.name == "" {
			if v, ok := firstNonEmpty(r, NameFields); ok {
				agg.name = v
			}
		}
		if agg.model == "" {
			if v, ok := firstNonEmpty(r, ModelFields); ok {
				agg.model = v
			}
		}

		if v, ok := firstNonEmpty(r, QtyFields); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				agg.qty += f
			}
		}

		agg.totalRows++

		deliveredFields := StdDeliveredFields
		if agg.isProc {
			deliveredFields = ProcDeliveredFields
		}
		if hasAnyDate(r, deliveredFields) {
			agg.deliveredRows++
		}

		if hasAnyDate(r, IqcReceiptFields) {
			agg.hasIqcReceipt = true
		}
		if hasAnyDate(r, InStockFields) {
			agg.hasInStock = true
		}

		// 采购回复到料日期取三列中的最大值，再与聚合值取最大
		if d, ok := latestDate(r, PurchaseReplyFields); ok {
			if !agg.hasPurchaseReply || d.After(agg.purchaseReply) {
				agg.purchaseReply = d
				agg.hasPurchaseReply = true
			}
		}

		rowReceipt, hasRowReceipt := earliestDate(r, ReceiptFields)
		if hasRowReceipt {
			if !agg.hasReceipt || rowReceipt.Before(agg.receiptEarliest) {
				agg.receiptEarliest = rowReceipt
				agg.hasReceipt = true
			}
		}

		if d, ok := earliestDate(r, OrderDateFields); ok {
			if !agg.hasOrderDate || d.Before(agg.orderDateEarliest) {
				agg.orderDateEarliest = d
				agg.hasOrderDate = true
			}
		}

		var dueVal time.Time
		hasDue := false
		if fm.Due != "" {
			dueVal, hasDue = NormalizeDate(r[fm.Due])
		}
		if hasDue {
			if !agg.hasDue || dueVal.Before(agg.dueEarliest) {
				agg.dueEarliest = dueVal
				agg.hasDue = true
			}
		}

		// 准时判定：收料与需求日期齐备才纳入统计，按日历日比较
		if hasRowReceipt && hasDue {
			onTime := !StartOfDay(rowReceipt).After(StartOfDay(dueVal))
			if isProc {
				procOnTimeChecked++
				if onTime {
					procOnTimeOk++
				} else {
					procOnTimeNg++
				}
			} else {
				stdOnTimeChecked++
				if onTime {
					stdOnTimeOk++
				} else {
					stdOnTimeNg++
				}
			}
		}
	}

	cycle := computeCycle(records, fm, opts)

	var stdCount, procCount, stdDelivered, procDelivered, pendingIqc int
	undelivered := []model.UndeliveredPart{}

	for _, part := range partOrder {
		agg := partAgg[part]
		fullyDelivered := agg.deliveredRows >= agg.totalRows

		if agg.isProc {
			procCount++
			if fullyDelivered {
				procDelivered++
			}
		} else {
			stdCount++
			if fullyDelivered {
				stdDelivered++
			}
		}

		if !fullyDelivered {
			typ := "标准件"
			if agg.isProc {
				typ = "加工件"
			}
			var reply *string
			if agg.hasPurchaseReply {
				s := FormatDay(agg.purchaseReply)
				reply = &s
			}
			undelivered = append(undelivered, model.UndeliveredPart{
				PartNo:            part,
				Name:              agg.name,
				Model:             agg.model,
				Qty:               agg.qty,
				Type:              typ,
				DeliveredRows:     agg.deliveredRows,
				TotalRows:         agg.totalRows,
				PurchaseReplyDate: reply,
			})
		}

		if agg.hasIqcReceipt && !agg.hasInStock {
			pendingIqc++
		}
	}

	return &model.StatsResult{
		Rows:        len(records),
		UniqueTotal: len(partAgg),
		ProjectName: detectProjectName(grid),

		StdTotal:  stdCount,
		ProcTotal: procCount,
		StdRows:   stdRows,
		ProcRows:  procRows,

		StdDelivered:    stdDelivered,
		ProcDelivered:   procDelivered,
		StdUndelivered:  stdCount - stdDelivered,
		ProcUndelivered: procCount - procDelivered,
		UndeliveredList: undelivered,

		StdOnTimeOk:       stdOnTimeOk,
		StdOnTimeNg:       stdOnTimeNg,
		StdOnTimeChecked:  stdOnTimeChecked,
		StdOnTimeRate:     rate2(stdOnTimeOk, stdOnTimeChecked),
		ProcOnTimeOk:      procOnTimeOk,
		ProcOnTimeNg:      procOnTimeNg,
		ProcOnTimeChecked: procOnTimeChecked,
		ProcOnTimeRate:    rate2(procOnTimeOk, procOnTimeChecked),

		PendingIqc:    pendingIqc,
		TotalOrderQty: totalOrderQty(records),

		Milestones: detectMilestones(records),
		CycleStats: cycle,
	}
}

// computeCycle 周期统计：从（截止顺延后的）下单日到收料日的日历天数
// 口径固定为 round((收料日-起算日)/天)，负值归零；无法判定的行计入 Un。
func computeCycle(records []model.RawRow, fm *FieldMap, opts Options) model.CycleStats {
	var c model.CycleStats
	var stdTotalDays, procTotalDays int

	for _, r := range records {
		part := CellString(r[fm.Part])
		if part == "" {
			continue
		}
		isProc := strings.HasPrefix(part, opts.ProcPrefix)

		receipt, hasReceipt := earliestDate(r, CycleReceiptFields)
		orderDate, hasOrder := earliestDate(r, CycleOrderDateFields)

		if !hasReceipt || !hasOrder {
			if isProc {
				c.ProcUn++
			} else {
				c.StdUn++
			}
			continue
		}

		days := elapsedDays(orderDate, receipt, opts.CutoffHour)
		if isProc {
			procTotalDays += days
			if days <= opts.ProcCycleLimit {
				c.ProcOk++
			} else {
				c.ProcNg++
			}
		} else {
			stdTotalDays += days
			if days <= opts.StdCycleLimit {
				c.StdOk++
			} else {
				c.StdNg++
			}
		}
	}

	c.StdAvg = avg1(stdTotalDays, c.StdOk+c.StdNg)
	c.ProcAvg = avg1(procTotalDays, c.ProcOk+c.ProcNg)
	return c
}

// elapsedDays 截止顺延规则：严格晚于 cutoffHour 整点（含同一小时内非零分秒）
// 起算日顺延一天；恰好整点不顺延。
func elapsedDays(orderDate, receipt time.Time, cutoffHour int) int {
	start := orderDate
	h, m, s := start.Clock()
	if h > cutoffHour || (h == cutoffHour && (m > 0 || s > 0)) {
		start = start.AddDate(0, 0, 1)
	}
	startDay := StartOfDay(start)
	endDay := StartOfDay(receipt)

	days := int(math.Round(endDay.Sub(startDay).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days
}

// totalOrderQty 按唯一工单号取首个数量值求和
func totalOrderQty(records []model.RawRow) float64 {
	seen := make(map[string]float64)
	order := []string{}
	for _, r := range records {
		wo, ok := firstNonEmpty(r, WorkOrderFields)
		if !ok {
			continue
		}
		qv, ok := firstNonEmpty(r, QtyFields)
		if !ok {
			continue
		}
		if _, dup := seen[wo]; dup {
			continue
		}
		qty, err := strconv.ParseFloat(qv, 64)
		if err != nil {
			qty = 0
		}
		seen[wo] = qty
		order = append(order, wo)
	}
	total := 0.0
	for _, wo := range order {
		total += seen[wo]
	}
	return total
}

var projectNameRe = regexp.MustCompile(`项目名称[:：]\s*(.*)`)

var milestoneFields = map[string][]string{
	"assemblyStart": {"组装计划开始"},
	"assemblyEnd":   {"组装计划结束"},
	"debugStart":    {"工程调试计划开始", "调试开始"},
	"debugEnd":      {"工程调试计划结束", "调试结束"},
	"shipStart":     {"出货计划开始", "出货时间"},
}

// detectMilestones 取首个带值行的排程时间节点
func detectMilestones(records []model.RawRow) model.Milestones {
	first := func(candidates []string) string {
		for _, r := range records {
			if v, ok := firstNonEmpty(r, candidates); ok {
				if d, ok := NormalizeDate(v); ok {
					return FormatDay(d)
				}
				return "-"
			}
		}
		return "-"
	}
	return model.Milestones{
		AssemblyStart: first(milestoneFields["assemblyStart"]),
		AssemblyEnd:   first(milestoneFields["assemblyEnd"]),
		DebugStart:    first(milestoneFields["debugStart"]),
		DebugEnd:      first(milestoneFields["debugEnd"]),
		ShipStart:     first(milestoneFields["shipStart"]),
	}
}

// detectProjectName 在前 15 行内搜寻项目名称
// 兼容两种版式：标签单元格后跟值单元格，或 "项目名称:xxx" 写在同一格
func detectProjectName(grid [][]string) string {
	limit := len(grid)
	if limit > 15 {
		limit = 15
	}
	for i := 0; i < limit; i++ {
		row := grid[i]
		for j, cell := range row {
			c := strings.TrimSpace(cell)
			if c == "" {
				continue
			}
			if m := projectNameRe.FindStringSubmatch(c); m != nil && strings.TrimSpace(m[1]) != "" {
				return strings.TrimSpace(m[1])
			}
			if (strings.Contains(c, "项目名称") || c == "项目") && j+1 < len(row) {
				if next := strings.TrimSpace(row[j+1]); next != "" {
					return next
				}
			}
		}
	}
	return ""
}

// rate2 百分比保留两位小数，分母为零时返回 nil
func rate2(ok, checked int) *float64 {
	if checked == 0 {
		return nil
	}
	v := math.Round(float64(ok)/float64(checked)*100*100) / 100
	return &v
}

// avg1 平均值保留一位小数，分母为零时返回 0
func avg1(totalDays, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(totalDays)/float64(n)*10) / 10
}
