package endpoint

import (
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
)

// ListVisits godoc
// @Summary      List a patient's visits
// @Description  Get a patient's visit history, most recent first
// @Tags         Visit
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=object} "Visits retrieved"
// @Failure      400 {object} util.APIResponse "Patient not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /patient/{id}/visit [get]
func ListVisits(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	var visits []model.Visit
	if err := db.Where("patient_id = ?", patient.ID).Order("id ASC").Find(&visits).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve visits", Err: err})
		return
	}

	recent := report.RecentVisits(visits, len(visits))

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Visits retrieved",
		Data: map[string]interface{}{
			"patient_id": patient.ID,
			"total":      len(visits),
			"visits":     recent,
		},
	})
}

type addVisitRequest struct {
	Date        string   `json:"date" example:"2025-04-18"`
	Drugs       []string `json:"drugs" example:"Paracetamol 500 mg"`
	Tests       []string `json:"tests" example:"CBC"`
	Notes       string   `json:"notes" example:"Seasonal flu symptoms"`
	Outcome     string   `json:"outcome" example:"Recovered"`
	Temperature float64  `json:"temperature" example:"38.2"`
	HeartRate   int      `json:"heart_rate" example:"88"`
	Systolic    int      `json:"systolic" example:"122"`
	Diastolic   int      `json:"diastolic" example:"80"`
}

// AddVisit godoc
// @Summary      Append a visit to a patient
// @Description  Visits are append-only; there is no edit or delete path
// @Tags         Visit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Param        request body addVisitRequest true "Visit record"
// @Success      200 {object} util.APIResponse{data=model.Visit} "Visit recorded"
// @Failure      400 {object} util.APIResponse "Invalid request or patient not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id}/visit [post]
func AddVisit(c *gin.Context) {
	var req addVisitRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	// a missing or malformed date falls back to today rather than failing
	date := time.Now()
	if req.Date != "" {
		if parsed, err := time.Parse("2006-01-02", req.Date); err == nil {
			date = parsed
		}
	}

	visit := model.Visit{
		PatientID:   patient.ID,
		Date:        date,
		Drugs:       model.JoinList(req.Drugs),
		Tests:       model.JoinList(req.Tests),
		Notes:       req.Notes,
		Outcome:     req.Outcome,
		Temperature: req.Temperature,
		HeartRate:   req.HeartRate,
		Systolic:    req.Systolic,
		Diastolic:   req.Diastolic,
	}
	if err := db.Create(&visit).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record visit", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visit recorded", Data: visit})
}
