package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Janwang88/KIMD/internal/model"
)

// KIMD 导出的报表列名在不同版本间并不稳定，同一逻辑列可能出现多种表头，
// 这里按优先级列出各逻辑字段的候选同义列名。
var (
	PartFields  = []string{"料号", "物料编码", "物料代码", "编码", "PartNo", "Part No", "Material No"}
	NameFields  = []string{"名称", "物料名称", "品名", "Name"}
	ModelFields = []string{"规格型号", "规格", "型号", "Model", "Specification"}
	QtyFields   = []string{"PMC下单数量", "数量", "计划数量", "订单数量", "需求数量", "Qty", "Quantity"}

	// 交货判定字段：标准件与加工件使用不同的收料字段集合
	StdDeliveredFields  = []string{"手工收料时间", "入库时间"}
	ProcDeliveredFields = []string{"收料时间", "收料时间2", "手工收料时间", "入库时间"}

	ReceiptFields    = []string{"收料时间", "收料时间2", "手工收料时间", "入库时间"}
	IqcReceiptFields = []string{"收料时间", "收料时间2", "手工收料时间"}
	InStockFields    = []string{"入库时间"}

	DueDateFields       = []string{"PMC需求时间", "PMC需求日期"}
	OrderDateFields     = []string{"制单日期", "创建时间"}
	PurchaseReplyFields = []string{"采购回复到料日期1", "采购回复到料日期2", "采购回复到料日期3"}

	// 周期统计使用更宽的探测集合，确保日期被读到
	CycleOrderDateFields = []string{"制单日期", "创建时间", "采购订单日期"}
	CycleReceiptFields   = []string{"收料时间", "收料时间2", "手工收料时间", "入库时间", "实计到料时间"}

	WorkOrderFields = []string{"工单", "工单号", "工单编号", "WorkOrder"}
)

// FieldMap 一张表的逻辑字段到实际表头的解析结果，每张表只解析一次
type FieldMap struct {
	Part string
	Due  string // 空串表示表中没有需求日期列
}

// ResolveFields 从表头解析逻辑字段映射
// 每个逻辑字段取候选列表中第一个出现的表头；料号缺失时回退为默认列名。
func ResolveFields(headers []string) *FieldMap {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = struct{}{}
	}

	pick := func(candidates []string, def string) string {
		for _, c := range candidates {
			if _, ok := present[c]; ok {
				return c
			}
		}
		return def
	}

	return &FieldMap{
		Part: pick(PartFields, "料号"),
		Due:  pick(DueDateFields, ""),
	}
}

// CellString 单元格值转字符串（数字去掉浮点尾巴）
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// firstNonEmpty 返回候选列中第一个非空值
func firstNonEmpty(r model.RawRow, candidates []string) (string, bool) {
	for _, c := range candidates {
		if v, ok := r[c]; ok {
			if s := CellString(v); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// hasAnyDate 候选列中是否存在可解析为日期的值
func hasAnyDate(r model.RawRow, candidates []string) bool {
	return lo.SomeBy(candidates, func(c string) bool {
		_, ok := NormalizeDate(r[c])
		return ok
	})
}

// earliestDate 候选列中最早的日期；严格小于才更新，先到者赢
func earliestDate(r model.RawRow, candidates []string) (time.Time, bool) {
	var min time.Time
	found := false
	for _, c := range candidates {
		d, ok := NormalizeDate(r[c])
		if !ok {
			continue
		}
		if !found || d.Before(min) {
			min = d
			found = true
		}
	}
	return min, found
}

// latestDate 候选列中最晚的日期
func latestDate(r model.RawRow, candidates []string) (time.Time, bool) {
	var max time.Time
	found := false
	for _, c := range candidates {
		d, ok := NormalizeDate(r[c])
		if !ok {
			continue
		}
		if !found || d.After(max) {
			max = d
			found = true
		}
	}
	return max, found
}
