package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Janwang88/KIMD/internal/model"
)

// Sheet 首个工作表的原始内容
// Grid 为含表头前导行的完整二维表；Records 以首个非空行为表头建成行映射
type Sheet struct {
	FileID  string
	Path    string
	Name    string
	Headers []string
	Records []model.RawRow
	Grid    [][]string
}

// ReadFirstSheet 读取文件首个工作表
// 使用原始单元格值（日期保持 Excel 序列号），归一化交给统计层处理
func ReadFirstSheet(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()
	return firstSheet(f, path)
}

// ReadFirstSheetFrom 从内存数据读取首个工作表（用于上传导入）
func ReadFirstSheetFrom(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()
	return firstSheet(f, "")
}

func firstSheet(f *excelize.File, path string) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	name := sheets[0]

	grid, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	s := &Sheet{
		FileID: uuid.New().String(),
		Path:   path,
		Name:   name,
		Grid:   grid,
	}
	s.buildRecords()
	return s, nil
}

// buildRecords 以首行为表头构建行映射，空表头列丢弃
func (s *Sheet) buildRecords() {
	if len(s.Grid) == 0 {
		return
	}
	headers := make([]string, len(s.Grid[0]))
	for i, h := range s.Grid[0] {
		headers[i] = strings.TrimSpace(h)
	}
	s.Headers = headers

	records := make([]model.RawRow, 0, len(s.Grid)-1)
	for _, row := range s.Grid[1:] {
		r := make(model.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				r[h] = row[i]
			} else {
				r[h] = ""
			}
		}
		records = append(records, r)
	}
	s.Records = records
}
