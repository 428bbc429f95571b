package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtraField is an ad-hoc label/value pair attached to a submission.
// The ID is assigned once at creation and stays stable across edits.
type ExtraField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewExtraField creates an empty extra field with a fresh stable ID.
func NewExtraField(label string) ExtraField {
	return ExtraField{
		ID:    "x_" + uuid.NewString(),
		Label: label,
	}
}

// Submission is the full intake record as entered by an agent.
// All fields are exported for JSON and store use.
type Submission struct {
	AgentName            string       `json:"agentName"`
	Channel              string       `json:"channel"`
	ConversationID       string       `json:"conversationId"`
	CxType               string       `json:"cxType"`
	SimFlow              string       `json:"simFlow"`
	CxName               string       `json:"cxName"`
	CxEmail              string       `json:"cxEmail"`
	CxAddress            string       `json:"cxAddress"`
	MDN                  string       `json:"mdn"`
	MNO                  string       `json:"mno"`
	IssueDescription     string       `json:"issueDescription"`
	ErrorCode            string       `json:"error"`
	DeviceModel          string       `json:"deviceModel"`
	IMEIMode             string       `json:"imeiMode"`
	IMEI1                string       `json:"imei1"`
	IMEI2                string       `json:"imei2"`
	ExistingOrNew        string       `json:"existingOrNew"`
	PlanDetails          string       `json:"planDetails"`
	Troubleshooting      []string     `json:"troubleshooting"`
	SimType              string       `json:"simType"`
	OTARegistered        string       `json:"otaRegistered"`
	APNReset             string       `json:"apnReset"`
	NewAPNSent           string       `json:"newApnSent"`
	IphoneReset          string       `json:"iphoneReset"`
	SimInserted          string       `json:"simInserted"`
	DeviceChange         string       `json:"deviceChange"`
	NewDeviceIMEI        string       `json:"newDeviceImei"`
	IssueLocation        string       `json:"issueLocation"`
	PaymentInvoiceShared bool         `json:"paymentInvoiceShared"`
	Status               string       `json:"status"`
	TSUpdate             string       `json:"tsUpdate"`
	ExtraFields          []ExtraField `json:"extraFields"`
}

// DefaultSubmission returns a fresh draft with the standard field defaults.
func DefaultSubmission() *Submission {
	return &Submission{
		Channel:         "Call",
		CxType:          "Enquiry",
		SimFlow:         "Psim-esim",
		MNO:             "VZW",
		IMEIMode:        "IMEI 1",
		OTARegistered:   "No",
		APNReset:        "No",
		NewAPNSent:      "No",
		IphoneReset:     "No",
		DeviceChange:    "No",
		IssueLocation:   "Home",
		Status:          "Open",
		Troubleshooting: []string{},
		ExtraFields:     []ExtraField{},
	}
}

// Clone returns a deep copy of the submission.
func (s *Submission) Clone() *Submission {
	c := *s
	c.Troubleshooting = append([]string(nil), s.Troubleshooting...)
	c.ExtraFields = append([]ExtraField(nil), s.ExtraFields...)
	return &c
}

// Record is a submission together with its document identity. CreatedAt is
// set by the store for documents read back from it; SubmittedAt is set
// client-side for submissions tracked locally for export. Either may be zero.
type Record struct {
	ID string `json:"id"`
	Submission
	CreatedAt   time.Time `json:"createdAt"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// UpdateEntry is a strictly additive note appended under an existing
// submission document. ID and UpdatedAt are assigned by the store.
type UpdateEntry struct {
	ID        string    `json:"id"`
	Notes     string    `json:"notes"`
	Agent     string    `json:"agent"`
	UpdatedAt time.Time `json:"updatedAt"`
}
