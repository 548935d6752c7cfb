package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
)

// ExportTendersToExcel downloads the tender register as an Excel sheet.
// The same filters as GetTenders apply (statusIds, team, unallocated,
// search).
func ExportTendersToExcel(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.Tender{}).
		Preload("Status").Preload("TeamMember").
		Where("delete_status = 0")

	if raw := r.URL.Query().Get("statusIds"); raw != "" {
		query = query.Where("status_id IN ?", strings.Split(raw, ","))
	}
	if team := r.URL.Query().Get("team"); team != "" {
		query = query.Where("team = ?", team)
	}
	if r.URL.Query().Get("unallocated") == "true" {
		query = query.Where("team_member_id IS NULL")
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("tender_no ILIKE ? OR tender_name ILIKE ? OR organization ILIKE ?", like, like, like)
	}

	var tenders []models.Tender
	if err := query.Order("due_date ASC").Find(&tenders).Error; err != nil {
		respondError(w, err)
		return
	}

	f, err := createTenderRegister(tenders)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("tender_register_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportDashboardTab downloads one dashboard tab as an Excel register.
// Only families whose rows are tenders can be exported; the other
// families carry domain-specific rows with no register layout.
func ExportDashboardTab(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	family := findFamily(vars["family"])
	if family == nil {
		http.Error(w, "Unknown dashboard", http.StatusNotFound)
		return
	}
	switch family.Key {
	case "tenders", "results", "bid-submissions":
	default:
		http.Error(w, "Export is not available for this dashboard", http.StatusBadRequest)
		return
	}

	scoped := teamScoped(family.Base(config.DB), r)
	if tabKey := r.URL.Query().Get("tab"); tabKey != "" {
		var tab *dashboardTab
		for i := range family.Tabs {
			if family.Tabs[i].Key == tabKey {
				tab = &family.Tabs[i]
				break
			}
		}
		if tab == nil {
			http.Error(w, "Unknown dashboard tab", http.StatusNotFound)
			return
		}
		scoped = tab.Scope(scoped)
	}

	var tenders []models.Tender
	if err := scoped.Preload("Status").Preload("TeamMember").
		Order(dashboardOrder(r, family.Order)).Find(&tenders).Error; err != nil {
		respondError(w, err)
		return
	}

	f, err := createTenderRegister(tenders)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_register_%s.xlsx", family.Key, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

var tenderRegisterHeaders = []string{
	"Tender No", "Tender Name", "Organization", "Item", "Team",
	"Assigned To", "Due Date", "Status", "Tender Fees", "EMD",
}

func createTenderRegister(tenders []models.Tender) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Tenders"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", "Tender Register")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range tenderRegisterHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})
	for rowIdx, tender := range tenders {
		assignee := ""
		if tender.TeamMember != nil {
			assignee = tender.TeamMember.Name
		}
		status := ""
		if tender.Status != nil {
			status = tender.Status.Name
		}
		values := []interface{}{
			tender.TenderNo,
			tender.TenderName,
			tender.Organization,
			tender.Item,
			tender.Team,
			assignee,
			time.Time(tender.DueDate).Format("2006-01-02 15:04:05"),
			status,
			floatOrBlank(tender.TenderFees),
			floatOrBlank(tender.EMD),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	return f, nil
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
