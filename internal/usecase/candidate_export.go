package usecase

import (
	"bytes"
	"context"
	"fmt"

	"thinqor-ats/internal/domain"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID", "NAME", "EMAIL", "PHONE", "SKILLS", "EDUCATION", "EXPERIENCE",
	"CTC (LPA)", "ECTC (LPA)", "CREATED BY", "CREATED AT",
}

// Export renders the scoped directory as an xlsx workbook.
func (u *candidateUsecase) Export(ctx context.Context, scope domain.ListScope) ([]byte, string, error) {
	candidates, err := u.repo.List(ctx, scope)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidates"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#166534"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, c := range candidates {
		row := []any{
			c.ID, c.Name, c.Email, c.Phone, c.Skills, c.Education, c.Experience,
			optionalFloat(c.CTC), optionalFloat(c.ECTC), formatOptionalID(c.CreatedBy),
			c.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("candidates_%s.xlsx", u.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func optionalFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
