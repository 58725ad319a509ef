package model

// RawRow 单行原始数据：列名到单元格值的映射
// 值可能是字符串、数字（Excel 日期序列号）或 time.Time，列名因报表版本而异
type RawRow map[string]any

// UndeliveredPart 未交货物料明细条目
type UndeliveredPart struct {
	PartNo            string  `json:"partNo"`
	Name              string  `json:"name"`
	Model             string  `json:"model"`
	Qty               float64 `json:"qty"`
	Type              string  `json:"type"` // 加工件 / 标准件
	DeliveredRows     int     `json:"deliveredRows"`
	TotalRows         int     `json:"totalRows"`
	PurchaseReplyDate *string `json:"purchaseReplyDate"`
}

// Milestones 排程时间节点（已格式化为 YYYY-MM-DD，无值为 "-"）
type Milestones struct {
	AssemblyStart string `json:"assemblyStart"`
	AssemblyEnd   string `json:"assemblyEnd"`
	DebugStart    string `json:"debugStart"`
	DebugEnd      string `json:"debugEnd"`
	ShipStart     string `json:"shipStart"`
}

// CycleStats 采购周期统计（按标准件/加工件分类）
type CycleStats struct {
	StdOk   int     `json:"stdOk"`
	StdNg   int     `json:"stdNg"`
	StdUn   int     `json:"stdUn"`
	StdAvg  float64 `json:"stdAvg"`
	ProcOk  int     `json:"procOk"`
	ProcNg  int     `json:"procNg"`
	ProcUn  int     `json:"procUn"`
	ProcAvg float64 `json:"procAvg"`
}

// StatsResult 一次物料明细统计的完整结果
// 款数(Total)按唯一料号计，行数(Rows)按原始行计
type StatsResult struct {
	Rows        int    `json:"rows"`
	UniqueTotal int    `json:"uniqueTotal"`
	ProjectName string `json:"projectName"`

	StdTotal  int `json:"stdTotal"`
	ProcTotal int `json:"procTotal"`
	StdRows   int `json:"stdRows"`
	ProcRows  int `json:"procRows"`

	StdDelivered    int               `json:"stdDelivered"`
	ProcDelivered   int               `json:"procDelivered"`
	StdUndelivered  int               `json:"stdUndelivered"`
	ProcUndelivered int               `json:"procUndelivered"`
	UndeliveredList []UndeliveredPart `json:"undeliveredList"`

	StdOnTimeOk       int      `json:"stdOnTimeOk"`
	StdOnTimeNg       int      `json:"stdOnTimeNg"`
	StdOnTimeChecked  int      `json:"stdOnTimeChecked"`
	StdOnTimeRate     *float64 `json:"stdOnTimeRate"`
	ProcOnTimeOk      int      `json:"procOnTimeOk"`
	ProcOnTimeNg      int      `json:"procOnTimeNg"`
	ProcOnTimeChecked int      `json:"procOnTimeChecked"`
	ProcOnTimeRate    *float64 `json:"procOnTimeRate"`

	PendingIqc    int     `json:"pendingIqc"`
	TotalOrderQty float64 `json:"totalOrderQty"`

	Milestones Milestones `json:"milestones"`
	CycleStats CycleStats `json:"cycleStats"`
}

// ProcessHours 单个工艺的系统工时拆分
type ProcessHours struct {
	Kimd      float64 `json:"kimd"`
	Outsource float64 `json:"outsource"`
}

// HoursGroup 单个工艺大类的工时汇总
type HoursGroup struct {
	Plan             float64                 `json:"plan"`
	Kimd             float64                 `json:"kimd"`
	Outsource        float64                 `json:"outsource"`
	Total            float64                 `json:"total"`
	Processes        []string                `json:"processes"`
	ProcessBreakdown map[string]ProcessHours `json:"processBreakdown"`
}

// HoursStats 实际工时统计结果（三个固定工艺大类）
type HoursStats struct {
	TotalHours  float64    `json:"totalHours"`
	Assembly    HoursGroup `json:"assembly"`
	Wiring      HoursGroup `json:"wiring"`
	Mixed       HoursGroup `json:"mixed"`
	ProjectName string     `json:"projectName"`
}
