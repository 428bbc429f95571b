package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/art2002-alugu/infimobile-form/internal/models"
)

// CSVColumns is the fixed export column order. Rows always carry every
// column; absent values render as an empty quoted cell.
var CSVColumns = []string{
	"agentName", "channel", "conversationId", "cxType", "simFlow",
	"cxName", "cxEmail", "cxAddress", "mdn", "mno", "issueDescription",
	"deviceModel", "imeiMode", "imei1", "imei2", "status", "tsUpdate",
}

// ExportCSV projects the locally tracked submissions into delimited text:
// one header row, then one row per record, every cell quoted. The input is
// not mutated.
func ExportCSV(records []*models.Record) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(CSVColumns, ","))

	for _, rec := range records {
		cells := make([]string, len(CSVColumns))
		for i, col := range CSVColumns {
			cells[i] = strconv.Quote(columnValue(&rec.Submission, col))
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

// DraftJSON renders the current draft as pretty-printed JSON for the
// clipboard.
func DraftJSON(sub *models.Submission) ([]byte, error) {
	return json.MarshalIndent(sub, "", "  ")
}

func columnValue(s *models.Submission, column string) string {
	switch column {
	case "agentName":
		return s.AgentName
	case "channel":
		return s.Channel
	case "conversationId":
		return s.ConversationID
	case "cxType":
		return s.CxType
	case "simFlow":
		return s.SimFlow
	case "cxName":
		return s.CxName
	case "cxEmail":
		return s.CxEmail
	case "cxAddress":
		return s.CxAddress
	case "mdn":
		return s.MDN
	case "mno":
		return s.MNO
	case "issueDescription":
		return s.IssueDescription
	case "deviceModel":
		return s.DeviceModel
	case "imeiMode":
		return s.IMEIMode
	case "imei1":
		return s.IMEI1
	case "imei2":
		return s.IMEI2
	case "status":
		return s.Status
	case "tsUpdate":
		return s.TSUpdate
	default:
		return ""
	}
}
