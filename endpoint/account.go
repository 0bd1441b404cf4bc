package endpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accountView is an Account decorated with its derived display state.
type accountView struct {
	model.Account
	StatusText   string                  `json:"status_text"`
	Subscription report.SubscriptionInfo `json:"subscription"`
}

func viewOf(acc model.Account, today time.Time) accountView {
	status := "Inactive"
	if acc.IsActive {
		status = "Active"
	}
	return accountView{
		Account:      acc,
		StatusText:   status,
		Subscription: report.Subscription(acc.SubscriptionStart, acc.SubscriptionEnd, today),
	}
}

// listAccounts serves GET for one account kind with optional keyword/field
// filtering and, for pharmacy/lab kinds, an owning-doctor filter.
func listAccounts(c *gin.Context, kind, label string) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	accounts, err := dir.ListAccounts(kind)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve " + label, Err: err})
		return
	}

	if doctorID := c.Query("doctor_id"); doctorID != "" {
		owned := make([]model.Account, 0, len(accounts))
		for _, acc := range accounts {
			if acc.DoctorID == doctorID {
				owned = append(owned, acc)
			}
		}
		accounts = owned
	}

	filtered := report.FilterAccounts(accounts, c.Query("keyword"), c.Query("field"))

	today := time.Now()
	views := make([]accountView, 0, len(filtered))
	for _, acc := range filtered {
		views = append(views, viewOf(acc, today))
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: titleCase(label) + " retrieved",
		Data: map[string]interface{}{
			"total":         len(accounts),
			"total_fetched": len(views),
			label:           views,
		},
	})
}

func getAccount(c *gin.Context, kind, label string) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	acc, err := dir.GetAccount(c.Param("id"))
	if err != nil || acc.Kind != kind {
		if err == nil {
			err = store.ErrNotFound
		}
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: titleCase(label) + " not found", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  titleCase(label) + " retrieved",
		Data: viewOf(acc, time.Now()),
	})
}

type updateAccountRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Speciality  string `json:"speciality"`
	PhoneNumber string `json:"phone_number"`
	IsActive    *bool  `json:"is_active"`
}

func updateAccount(c *gin.Context, kind, label string) {
	var req updateAccountRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	acc, err := dir.GetAccount(c.Param("id"))
	if err != nil || acc.Kind != kind {
		if err == nil {
			err = store.ErrNotFound
		}
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: titleCase(label) + " not found", Err: err})
		return
	}

	if req.Email != "" && !strings.EqualFold(req.Email, acc.Email) {
		if taken, err := emailTaken(dir, req.Email, acc.ID); err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check email", Err: err})
			return
		} else if taken {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: fmt.Errorf("duplicate email")})
			return
		}
		acc.Email = req.Email
	}
	if req.Name != "" {
		acc.Name = util.NormalizeName(req.Name)
	}
	if req.Speciality != "" {
		acc.Speciality = req.Speciality
	}
	if req.PhoneNumber != "" {
		acc.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		acc.IsActive = *req.IsActive
	}

	if err := dir.UpdateAccount(acc); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update " + label, Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  titleCase(label) + " updated",
		Data: viewOf(acc, time.Now()),
	})
}

func emailTaken(dir store.Directory, email, excludeID string) (bool, error) {
	accounts, err := dir.ListAccounts("")
	if err != nil {
		return false, err
	}
	for _, acc := range accounts {
		if acc.ID != excludeID && strings.EqualFold(acc.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ListDoctors godoc
// @Summary      List doctor accounts
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        keyword query string false "Search keyword"
// @Param        field query string false "Restrict search to one field: name|email|speciality|phone_number"
// @Success      200 {object} util.APIResponse{data=object} "Doctors retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /doctor [get]
func ListDoctors(c *gin.Context) { listAccounts(c, model.KindDoctor, "doctors") }

// GetDoctor godoc
// @Summary      Get a doctor account
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse "Doctor retrieved"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id} [get]
func GetDoctor(c *gin.Context) { getAccount(c, model.KindDoctor, "doctor") }

// UpdateDoctor godoc
// @Summary      Update a doctor account
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Doctor ID"
// @Param        request body updateAccountRequest true "Updated fields"
// @Success      200 {object} util.APIResponse "Doctor updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id} [patch]
func UpdateDoctor(c *gin.Context) { updateAccount(c, model.KindDoctor, "doctor") }

// ListLabs godoc
// @Summary      List lab accounts
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        doctor_id query string false "Filter by owning doctor"
// @Success      200 {object} util.APIResponse{data=object} "Labs retrieved"
// @Router       /lab [get]
func ListLabs(c *gin.Context) { listAccounts(c, model.KindLab, "labs") }

// GetLab godoc
// @Summary      Get a lab account
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lab ID"
// @Success      200 {object} util.APIResponse "Lab retrieved"
// @Failure      404 {object} util.APIResponse "Lab not found"
// @Router       /lab/{id} [get]
func GetLab(c *gin.Context) { getAccount(c, model.KindLab, "lab") }

// UpdateLab godoc
// @Summary      Update a lab account
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lab ID"
// @Param        request body updateAccountRequest true "Updated fields"
// @Success      200 {object} util.APIResponse "Lab updated"
// @Failure      404 {object} util.APIResponse "Lab not found"
// @Router       /lab/{id} [patch]
func UpdateLab(c *gin.Context) { updateAccount(c, model.KindLab, "lab") }

// ListPharmacies godoc
// @Summary      List pharmacy accounts
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        doctor_id query string false "Filter by owning doctor"
// @Success      200 {object} util.APIResponse{data=object} "Pharmacies retrieved"
// @Router       /pharmacy [get]
func ListPharmacies(c *gin.Context) { listAccounts(c, model.KindPharmacy, "pharmacies") }

// GetPharmacy godoc
// @Summary      Get a pharmacy account
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pharmacy ID"
// @Success      200 {object} util.APIResponse "Pharmacy retrieved"
// @Failure      404 {object} util.APIResponse "Pharmacy not found"
// @Router       /pharmacy/{id} [get]
func GetPharmacy(c *gin.Context) { getAccount(c, model.KindPharmacy, "pharmacy") }

// UpdatePharmacy godoc
// @Summary      Update a pharmacy account
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pharmacy ID"
// @Param        request body updateAccountRequest true "Updated fields"
// @Success      200 {object} util.APIResponse "Pharmacy updated"
// @Failure      404 {object} util.APIResponse "Pharmacy not found"
// @Router       /pharmacy/{id} [patch]
func UpdatePharmacy(c *gin.Context) { updateAccount(c, model.KindPharmacy, "pharmacy") }

type createDoctorRequest struct {
	FirstName         string `json:"first_name" binding:"required" example:"Sarah"`
	LastName          string `json:"last_name" binding:"required" example:"Mahmoud"`
	Email             string `json:"email" binding:"required,email" example:"sarah.mahmoud@clinic.example"`
	Speciality        string `json:"speciality" example:"Cardiology"`
	PhoneNumber       string `json:"phone_number" example:"0501112222"`
	SubscriptionStart string `json:"subscription_start" example:"2025-01-01"`
	SubscriptionEnd   string `json:"subscription_end" example:"2026-01-01"`
}

type createDoctorResponse struct {
	DoctorID     string `json:"doctor_id"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PharmacyCode string `json:"pharmacy_code"`
	LabCode      string `json:"lab_code"`
}

// CreateDoctor godoc
// @Summary      Create a doctor account
// @Description  Creates the doctor plus its linked pharmacy and lab accounts; the generated credentials are returned once and never stored in clear
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createDoctorRequest true "Doctor information"
// @Success      200 {object} util.APIResponse{data=createDoctorResponse} "Doctor created"
// @Failure      400 {object} util.APIResponse "Invalid request or duplicate email"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor [post]
func CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	if taken, err := emailTaken(dir, req.Email, ""); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check email", Err: err})
		return
	} else if taken {
		util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: fmt.Errorf("duplicate email")})
		return
	}

	name := util.NormalizeName(req.FirstName + " " + req.LastName)
	doctor := model.Account{
		ID:                "d-" + uuid.NewString(),
		Kind:              model.KindDoctor,
		Name:              "Dr. " + name,
		Email:             req.Email,
		IsActive:          true,
		Speciality:        req.Speciality,
		PhoneNumber:       req.PhoneNumber,
		SubscriptionStart: parseDate(req.SubscriptionStart),
		SubscriptionEnd:   parseDate(req.SubscriptionEnd),
	}
	if err := dir.CreateAccount(&doctor); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create doctor", Err: err})
		return
	}

	pharmacyCode := util.GenerateAccessCode(8)
	pharmacy := model.Account{
		ID:         "p-" + uuid.NewString(),
		Kind:       model.KindPharmacy,
		Name:       name + " Pharmacy",
		Email:      "pharmacy." + req.Email,
		IsActive:   true,
		DoctorID:   doctor.ID,
		AccessCode: pharmacyCode,
	}
	labCode := util.GenerateAccessCode(8)
	lab := model.Account{
		ID:         "l-" + uuid.NewString(),
		Kind:       model.KindLab,
		Name:       name + " Lab",
		Email:      "lab." + req.Email,
		IsActive:   true,
		DoctorID:   doctor.ID,
		AccessCode: labCode,
	}
	if err := dir.CreateAccount(&pharmacy); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create pharmacy account", Err: err})
		return
	}
	if err := dir.CreateAccount(&lab); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create lab account", Err: err})
		return
	}

	password := util.GeneratePassword(16)

	userID, _ := middleware.GetUserID(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAccountCreated,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     req.Email,
		IP:        c.ClientIP(),
		Message:   "doctor account created",
		Details:   map[string]interface{}{"doctor_id": doctor.ID},
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Doctor account created successfully",
		Data: createDoctorResponse{
			DoctorID:     doctor.ID,
			Email:        doctor.Email,
			Password:     password,
			PharmacyCode: pharmacyCode,
			LabCode:      labCode,
		},
	})
}

// ResetDoctorPassword godoc
// @Summary      Reset a doctor's password
// @Description  Generates a new password, returned once in the response
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=object} "Password reset"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id}/reset-password [post]
func ResetDoctorPassword(c *gin.Context) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	doctor, err := dir.GetAccount(c.Param("id"))
	if err != nil || doctor.Kind != model.KindDoctor {
		if err == nil {
			err = store.ErrNotFound
		}
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
		return
	}

	password := util.GeneratePassword(16)

	userID, _ := middleware.GetUserID(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventPasswordReset,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     doctor.Email,
		IP:        c.ClientIP(),
		Message:   "doctor password reset",
		Details:   map[string]interface{}{"doctor_id": doctor.ID},
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Password reset",
		Data: map[string]interface{}{"doctor_id": doctor.ID, "password": password},
	})
}

// ToggleDoctorStatus godoc
// @Summary      Toggle a doctor's active status
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse "Status toggled"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id}/toggle-status [post]
func ToggleDoctorStatus(c *gin.Context) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	doctor, err := dir.GetAccount(c.Param("id"))
	if err != nil || doctor.Kind != model.KindDoctor {
		if err == nil {
			err = store.ErrNotFound
		}
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
		return
	}

	doctor.IsActive = !doctor.IsActive
	if err := dir.UpdateAccount(doctor); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to toggle status", Err: err})
		return
	}

	userID, _ := middleware.GetUserID(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventStatusToggled,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     doctor.Email,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("doctor status set to active=%t", doctor.IsActive),
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Status toggled",
		Data: viewOf(doctor, time.Now()),
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}
