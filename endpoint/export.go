package endpoint

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
)

var exportTypes = []string{"doctors", "labs", "pharmacies", "patients"}

// ExportData godoc
// @Summary      Export records as CSV
// @Description  Builds a CSV for the requested data type and returns it base64-encoded with a timestamped filename
// @Tags         Export
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Data type: doctors|labs|pharmacies|patients"
// @Success      200 {object} util.APIResponse{data=object} "Export ready"
// @Failure      400 {object} util.APIResponse "Unsupported data type"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /export/{type} [get]
func ExportData(c *gin.Context) {
	dataType := c.Param("type")
	if !util.Contains(dataType, exportTypes) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Unsupported data type",
			Err: fmt.Errorf("unknown export type %q", dataType),
		})
		return
	}

	var (
		rows [][]string
		err  error
	)
	if dataType == "patients" {
		rows, err = patientRows(c)
	} else {
		rows, err = accountRows(c, dataType)
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to export data", Err: err})
		return
	}
	if rows == nil {
		// a respond-er already wrote the error
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to write CSV", Err: err})
		return
	}

	userID, _ := middleware.GetUserID(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventDataExported,
		UserID:    fmt.Sprintf("%d", userID),
		IP:        c.ClientIP(),
		Message:   "exported " + dataType,
		Details:   map[string]interface{}{"type": dataType, "rows": len(rows) - 1},
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Export ready",
		Data: map[string]interface{}{
			"filename": fmt.Sprintf("%s_export_%s.csv", dataType, time.Now().Format("20060102_150405")),
			"data":     base64.StdEncoding.EncodeToString(buf.Bytes()),
		},
	})
}

func accountRows(c *gin.Context, dataType string) ([][]string, error) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return nil, nil
	}

	kind := map[string]string{
		"doctors":    model.KindDoctor,
		"labs":       model.KindLab,
		"pharmacies": model.KindPharmacy,
	}[dataType]

	accounts, err := dir.ListAccounts(kind)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	rows := [][]string{{
		"ID", "Name", "Email", "Status", "Speciality", "Phone",
		"Subscription Start", "Subscription End", "Days Left", "Created At",
	}}
	for _, acc := range accounts {
		status := "Inactive"
		if acc.IsActive {
			status = "Active"
		}
		info := report.Subscription(acc.SubscriptionStart, acc.SubscriptionEnd, today)
		daysLeft := "N/A"
		if info.DaysLeft != nil {
			daysLeft = strconv.Itoa(*info.DaysLeft)
		}
		rows = append(rows, []string{
			acc.ID,
			acc.Name,
			acc.Email,
			status,
			acc.Speciality,
			acc.PhoneNumber,
			formatDate(acc.SubscriptionStart),
			formatDate(acc.SubscriptionEnd),
			daysLeft,
			acc.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows, nil
}

func patientRows(c *gin.Context) ([][]string, error) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return nil, nil
	}

	var patients []model.Patient
	if err := db.Order("created_at ASC").Find(&patients).Error; err != nil {
		return nil, err
	}

	rows := [][]string{{
		"ID", "Name", "Age", "Gender", "Phone", "Address", "Blood Type",
		"Allergies", "Chronic Conditions", "Created At",
	}}
	for _, p := range patients {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.FullName,
			strconv.Itoa(p.Age),
			p.Gender,
			p.PhoneNumber,
			p.Address,
			p.BloodType,
			p.Allergies,
			p.ChronicConditions,
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
