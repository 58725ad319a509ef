package stats

import (
	"testing"

	"github.com/Janwang88/KIMD/internal/model"
)

func TestReconcile(t *testing.T) {
	t.Parallel()

	outsource := []model.LedgerHours{
		{Content: "模组组装", Hours: 8, WorkerLevel: "大工"},
		{Content: "模组组装", Hours: 4, WorkerLevel: "小工"},
		{Content: "电控配线", Hours: 6, WorkerLevel: ""}, // 无等级计为大工
		{Content: "领料", Hours: 2, WorkerLevel: "中工"},
		{Content: "焊接", Hours: 3, WorkerLevel: "大工"}, // 不在固定分组
	}
	kimd := []model.LedgerHours{
		{Content: "模组组装", Hours: 5},
		{Content: "", Hours: 99}, // 无工艺名不入细分
	}

	got := Reconcile(outsource, kimd)

	if got.Total != 23 {
		t.Fatalf("total: got %v, want 23", got.Total)
	}
	if got.Assembly != 12 || got.Wiring != 6 || got.Mixed != 2 || got.Uncategorized != 3 {
		t.Fatalf("groups: got a=%v w=%v m=%v u=%v", got.Assembly, got.Wiring, got.Mixed, got.Uncategorized)
	}
	if got.ProcessBreakdown["模组组装"] != 12 {
		t.Fatalf("process breakdown: got %v, want 12", got.ProcessBreakdown["模组组装"])
	}
	if got.KimdBreakdown["模组组装"] != 5 {
		t.Fatalf("kimd breakdown: got %v, want 5", got.KimdBreakdown["模组组装"])
	}

	d := got.DetailedProcessBreakdown["模组组装"]
	if d.Outsource.Big != 8 || d.Outsource.Small != 4 || d.Outsource.Total != 12 {
		t.Fatalf("detailed outsource: got %+v", d.Outsource)
	}
	if d.Kimd != 5 {
		t.Fatalf("detailed kimd: got %v, want 5", d.Kimd)
	}

	wiring := got.DetailedProcessBreakdown["电控配线"]
	if wiring.Outsource.Big != 6 {
		t.Fatalf("default level should be 大工: got %+v", wiring.Outsource)
	}
}

func TestSplitWorkOrders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"MO-1,MO-2", []string{"MO-1", "MO-2"}},
		{"MO-1 MO-2\nMO-3", []string{"MO-1", "MO-2", "MO-3"}},
		{"  MO-1 , ", []string{"MO-1"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := SplitWorkOrders(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: got %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%q: got %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestResolveFields(t *testing.T) {
	t.Parallel()

	fm := ResolveFields([]string{"物料编码", "PMC需求日期", "数量"})
	if fm.Part != "物料编码" {
		t.Fatalf("part field: got %q", fm.Part)
	}
	if fm.Due != "PMC需求日期" {
		t.Fatalf("due field: got %q", fm.Due)
	}

	// 候选全部缺失时回退默认料号列，需求日期列留空
	fm = ResolveFields([]string{"随便"})
	if fm.Part != "料号" || fm.Due != "" {
		t.Fatalf("fallback: got %q/%q", fm.Part, fm.Due)
	}
}
