package endpoint

import (
	"fmt"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListPatients godoc
// @Summary      List patients
// @Description  Get all patients, optionally filtered by a case-insensitive keyword over one or all searchable fields
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        keyword query string false "Search keyword"
// @Param        field query string false "Restrict search to one field: name|phone_number|address|blood_type"
// @Success      200 {object} util.APIResponse{data=object} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var patients []model.Patient
	if err := db.Order("created_at ASC").Find(&patients).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patients", Err: err})
		return
	}

	filtered := report.FilterPatients(patients, c.Query("keyword"), c.Query("field"))

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patients retrieved",
		Data: map[string]interface{}{
			"total":         len(patients),
			"total_fetched": len(filtered),
			"patients":      filtered,
		},
	})
}

type createPatientRequest struct {
	FullName          string   `json:"full_name" example:"Ahmed Al-Sayed"`
	Age               int      `json:"age" example:"34"`
	Gender            string   `json:"gender" example:"Male"`
	PhoneNumber       string   `json:"phone_number" example:"0501112222"`
	Address           string   `json:"address" example:"12 Corniche Rd"`
	BloodType         string   `json:"blood_type" example:"A+"`
	Allergies         []string `json:"allergies" example:"Penicillin"`
	ChronicConditions []string `json:"chronic_conditions" example:"Type 2 Diabetes"`
}

// CreatePatient godoc
// @Summary      Register a new patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createPatientRequest true "Patient information"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate patient"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	req.FullName = util.NormalizeName(req.FullName)
	if req.FullName == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient payload is empty or missing required fields",
			Err: fmt.Errorf("invalid payload"),
		})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var existing int64
	db.Model(&model.Patient{}).
		Where("full_name = ? AND phone_number = ?", req.FullName, req.PhoneNumber).
		Count(&existing)
	if existing > 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Patient already exists with same name and phone number",
			Err: fmt.Errorf("patient duplicate detected"),
		})
		return
	}

	patient := model.Patient{
		FullName:          req.FullName,
		Age:               req.Age,
		Gender:            req.Gender,
		PhoneNumber:       req.PhoneNumber,
		Address:           req.Address,
		BloodType:         req.BloodType,
		Allergies:         model.JoinList(req.Allergies),
		ChronicConditions: model.JoinList(req.ChronicConditions),
	}
	if err := db.Create(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient created", Data: patient})
}

func getPatientByID(c *gin.Context, db *gorm.DB) (model.Patient, bool) {
	id := c.Param("id")
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing patient ID",
			Err: fmt.Errorf("patient ID is required"),
		})
		return model.Patient{}, false
	}

	var patient model.Patient
	if err := db.First(&patient, id).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
		return model.Patient{}, false
	}
	return patient, true
}

// GetPatientInfo godoc
// @Summary      Get patient information
// @Description  Get a patient with its full visit history
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      400 {object} util.APIResponse "Patient not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /patient/{id} [get]
func GetPatientInfo(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	if err := db.Model(&patient).Association("Visits").Find(&patient.Visits); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load visits", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: patient})
}

type updatePatientRequest struct {
	FullName          string   `json:"full_name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	PhoneNumber       string   `json:"phone_number"`
	Address           string   `json:"address"`
	BloodType         string   `json:"blood_type"`
	Allergies         []string `json:"allergies"`
	ChronicConditions []string `json:"chronic_conditions"`
}

// UpdatePatient godoc
// @Summary      Update patient information
// @Description  Merge the provided fields into an existing patient; visits are not editable here
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Param        request body updatePatientRequest true "Updated patient fields"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient updated"
// @Failure      400 {object} util.APIResponse "Invalid request or patient not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [patch]
func UpdatePatient(c *gin.Context) {
	var req updatePatientRequest
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

	if req.FullName != "" {
		patient.FullName = util.NormalizeName(req.FullName)
	}
	if req.Age != 0 {
		patient.Age = req.Age
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.BloodType != "" {
		patient.BloodType = req.BloodType
	}
	if len(req.Allergies) > 0 {
		patient.Allergies = model.JoinList(req.Allergies)
	}
	if len(req.ChronicConditions) > 0 {
		patient.ChronicConditions = model.JoinList(req.ChronicConditions)
	}

	if err := db.Save(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient updated", Data: patient})
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Soft delete a patient and its visits
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse "Patient deleted"
// @Failure      400 {object} util.APIResponse "Patient not found"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [delete]
func DeletePatient(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, ok := getPatientByID(c, db)
	if !ok {
		return
	}

	// visits never outlive their patient
	if err := db.Where("patient_id = ?", patient.ID).Delete(&model.Visit{}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete visits", Err: err})
		return
	}
	if err := db.Delete(&patient).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete patient", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient deleted"})
}
