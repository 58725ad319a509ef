package model

// WorkOrder 生产排程中的一条工单记录
type WorkOrder struct {
	WorkOrderNo   string  `json:"workOrderNo"`
	TaskNo        string  `json:"taskNo"`
	ProjectName   string  `json:"projectName"`
	OrderDate     string  `json:"orderDate"`
	OrderQty      float64 `json:"orderQty"`
	AssemblyStart string  `json:"assemblyStart"`
	AssemblyEnd   string  `json:"assemblyEnd"`
	DebugStart    string  `json:"debugStart"`
	DebugEnd      string  `json:"debugEnd"`
	ShipStart     string  `json:"shipStart"`
}

// ManpowerRecord 外借人力台账记录
type ManpowerRecord struct {
	ID          int64   `json:"id"`
	WorkDate    string  `json:"work_date"`
	WorkOrder   string  `json:"work_order"`
	ProjectName string  `json:"project_name"`
	WorkerName  string  `json:"worker_name"`
	WorkerLevel string  `json:"worker_level"` // 大工 / 中工 / 小工
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Hours       float64 `json:"hours"`
	Supplier    string  `json:"supplier"`
	Shift       string  `json:"shift"`
	Manager     string  `json:"manager"`
	Content     string  `json:"content"` // 工艺名称
	Remark      string  `json:"remark"`
	Remark1     string  `json:"remark1"`
	Category    string  `json:"category"` // 外协 / KIMD
	CreatedAt   string  `json:"created_at"`
}

// LedgerHours 台账按工艺汇总所需的最小字段
type LedgerHours struct {
	Content     string
	Hours       float64
	WorkerLevel string
}

// LevelHours 按工人等级细分的外协工时
type LevelHours struct {
	Big   float64 `json:"大工"`
	Mid   float64 `json:"中工"`
	Small float64 `json:"小工"`
	Total float64 `json:"total"`
}

// DetailedProcess 单个工艺的本地台账细分
type DetailedProcess struct {
	Kimd      float64    `json:"kimd"`
	Outsource LevelHours `json:"outsource"`
}

// ReconcileStats 外协工时对账结果：本地台账按三个工艺大类汇总
type ReconcileStats struct {
	Total                    float64                    `json:"total"`
	Assembly                 float64                    `json:"assembly"`
	Mixed                    float64                    `json:"mixed"`
	Wiring                   float64                    `json:"wiring"`
	Uncategorized            float64                    `json:"uncategorized"`
	ProcessBreakdown         map[string]float64         `json:"processBreakdown"`
	KimdBreakdown            map[string]float64         `json:"kimdBreakdown"`
	DetailedProcessBreakdown map[string]DetailedProcess `json:"detailedProcessBreakdown"`
}

// Review 备忘/评论记录
type Review struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Milestone string `json:"milestone"`
	CreatedAt string `json:"created_at"`
}
