package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/tms/config"
	"p9e.in/tms/middleware"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

type CreateTenderRequest struct {
	TenderNo     string   `json:"tenderNo"`
	TenderName   string   `json:"tenderName"`
	Organization string   `json:"organization"`
	Item         string   `json:"item"`
	Team         string   `json:"team"`
	TeamMemberID *string  `json:"teamMemberId"`
	GSTValues    *float64 `json:"gstValues"`
	TenderFees   *float64 `json:"tenderFees"`
	EMD          *float64 `json:"emd"`
	DueDate      string   `json:"dueDate"`
}

type UpdateTenderRequest struct {
	TenderName     *string  `json:"tenderName"`
	Organization   *string  `json:"organization"`
	Item           *string  `json:"item"`
	Team           *string  `json:"team"`
	GSTValues      *float64 `json:"gstValues"`
	TenderFees     *float64 `json:"tenderFees"`
	EMD            *float64 `json:"emd"`
	TenderFeeMode  *string  `json:"tenderFeeMode"`
	EMDMode        *string  `json:"emdMode"`
	DueDate        *string  `json:"dueDate"`
	CourierAddress *string  `json:"courierAddress"`
	OemNotAllowed  *bool    `json:"oemNotAllowed"`
}

func tenderIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// CreateTender registers a new tender in status New.
func CreateTender(w http.ResponseWriter, r *http.Request) {
	var req CreateTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var fields []fieldProblem
	if strings.TrimSpace(req.TenderNo) == "" {
		fields = append(fields, fieldProblem{Field: "tenderNo", Message: "is required"})
	}
	if strings.TrimSpace(req.TenderName) == "" {
		fields = append(fields, fieldProblem{Field: "tenderName", Message: "is required"})
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		fields = append(fields, fieldProblem{Field: "dueDate", Message: err.Error()})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	var existing models.Tender
	if err := config.DB.Where("tender_no = ? AND delete_status = 0", req.TenderNo).First(&existing).Error; err == nil {
		respondError(w, &tenderflow.ConflictError{
			Entity:   "tender",
			Expected: "unique tender number",
			Actual:   req.TenderNo,
		})
		return
	}

	tender := models.Tender{
		TenderNo:     strings.TrimSpace(req.TenderNo),
		TenderName:   req.TenderName,
		Organization: req.Organization,
		Item:         req.Item,
		Team:         req.Team,
		GSTValues:    req.GSTValues,
		TenderFees:   req.TenderFees,
		EMD:          req.EMD,
		DueDate:      models.JSONTime(dueDate),
		StatusID:     tenderflow.StatusNew,
	}
	if req.TeamMemberID != nil {
		memberID, err := uuid.Parse(*req.TeamMemberID)
		if err != nil {
			respondValidation(w, []fieldProblem{{Field: "teamMemberId", Message: "must be a UUID"}})
			return
		}
		tender.TeamMemberID = &memberID
	}

	if err := config.DB.Create(&tender).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tender)
}

// GetTenders lists tenders with the dashboard filters: status ids,
// unallocated, team, and a free-text search across number, name and
// organization.
func GetTenders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Tender{}).
		Preload("Status").Preload("TeamMember").
		Where("delete_status = 0")

	if raw := r.URL.Query().Get("statusIds"); raw != "" {
		var ids []uint
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				respondValidation(w, []fieldProblem{{Field: "statusIds", Message: "must be comma-separated integers"}})
				return
			}
			ids = append(ids, uint(id))
		}
		query = query.Where("status_id IN ?", ids)
	}
	if r.URL.Query().Get("unallocated") == "true" {
		query = query.Where("team_member_id IS NULL")
	}
	if team := r.URL.Query().Get("team"); team != "" {
		query = query.Where("team = ?", team)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("tender_no ILIKE ? OR tender_name ILIKE ? OR organization ILIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var tenders []models.Tender
	if err := query.Limit(limit).Offset(offset).Order("due_date ASC").Find(&tenders).Error; err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenders": tenders,
		"total":   total,
		"page":    page,
		"limit":   limit,
		"pages":   (total + int64(limit) - 1) / int64(limit),
	})
}

// GetTender returns one tender with its status and assignee.
func GetTender(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.Preload("Status").Preload("TeamMember").
		First(&tender, "id = ? AND delete_status = 0", id).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tender)
}

// UpdateTender applies the provided fields. Status is deliberately not
// updatable here; that goes through ChangeTenderStatus.
func UpdateTender(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req UpdateTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.First(&tender, "id = ? AND delete_status = 0", id).Error; err != nil {
		respondError(w, err)
		return
	}

	updates := map[string]interface{}{}
	if req.TenderName != nil {
		updates["tender_name"] = *req.TenderName
	}
	if req.Organization != nil {
		updates["organization"] = *req.Organization
	}
	if req.Item != nil {
		updates["item"] = *req.Item
	}
	if req.Team != nil {
		updates["team"] = *req.Team
	}
	if req.GSTValues != nil {
		updates["gst_values"] = *req.GSTValues
	}
	if req.TenderFees != nil {
		updates["tender_fees"] = *req.TenderFees
	}
	if req.EMD != nil {
		updates["emd"] = *req.EMD
	}
	if req.TenderFeeMode != nil {
		updates["tender_fee_mode"] = *req.TenderFeeMode
	}
	if req.EMDMode != nil {
		updates["emd_mode"] = *req.EMDMode
	}
	if req.CourierAddress != nil {
		updates["courier_address"] = *req.CourierAddress
	}
	if req.OemNotAllowed != nil {
		updates["oem_not_allowed"] = *req.OemNotAllowed
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			respondValidation(w, []fieldProblem{{Field: "dueDate", Message: err.Error()}})
			return
		}
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&tender).Updates(updates).Error; err != nil {
			respondError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, tender)
}

// AllocateTender assigns (or with a null body field, unassigns) a team
// member.
func AllocateTender(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req struct {
		TeamMemberID *string `json:"teamMemberId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.First(&tender, "id = ? AND delete_status = 0", id).Error; err != nil {
		respondError(w, err)
		return
	}

	if req.TeamMemberID == nil {
		if err := config.DB.Model(&tender).Update("team_member_id", nil).Error; err != nil {
			respondError(w, err)
			return
		}
		tender.TeamMemberID = nil
		respondJSON(w, http.StatusOK, tender)
		return
	}

	memberID, err := uuid.Parse(*req.TeamMemberID)
	if err != nil {
		respondValidation(w, []fieldProblem{{Field: "teamMemberId", Message: "must be a UUID"}})
		return
	}
	var member models.User
	if err := config.DB.First(&member, "id = ? AND is_active = true", memberID).Error; err != nil {
		respondError(w, err)
		return
	}

	if err := config.DB.Model(&tender).Update("team_member_id", memberID).Error; err != nil {
		respondError(w, err)
		return
	}
	tender.TeamMemberID = &memberID
	respondJSON(w, http.StatusOK, tender)
}

// DeleteTender soft-deletes; the row stays for history and reporting.
func DeleteTender(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.First(&tender, "id = ? AND delete_status = 0", id).Error; err != nil {
		respondError(w, err)
		return
	}
	if err := config.DB.Model(&tender).Update("delete_status", 1).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Tender deleted"})
}

// ChangeTenderStatus is the manual status transition endpoint. A
// comment of at least ten characters is required.
func ChangeTenderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req struct {
		StatusID uint   `json:"statusId"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	changedBy := currentUserID(r)
	tender, err := workflow().ChangeStatus(id, req.StatusID, req.Comment, changedBy)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tender)
}

// GetTenderStatusHistory lists the audit trail, newest first.
func GetTenderStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.Select("id").First(&tender, "id = ? AND delete_status = 0", id).Error; err != nil {
		respondError(w, err)
		return
	}

	var history []models.TenderStatusHistory
	if err := config.DB.Where("tender_id = ?", id).Order("created_at DESC").Find(&history).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// workflow builds the orchestrator over the live connection so tests
// can swap config.DB for sqlite.
func workflow() *TenderWorkflow {
	return NewTenderWorkflow(config.DB, config.StatusRegistry)
}

func currentUserName(r *http.Request) string {
	if claims := middleware.GetClaims(r); claims != nil {
		return claims.Name
	}
	return ""
}

func currentUserID(r *http.Request) *uuid.UUID {
	id, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		return nil
	}
	return &id
}

func parseDueDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errInvalidDate
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate
}

var errInvalidDate = errors.New("must be an RFC3339 or YYYY-MM-DD date")
