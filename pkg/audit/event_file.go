package audit

import "fmt"

// File operations
const (
	FileUpload = "upload"
	FileDelete = "delete"
)

// FileEvent records an upload or deletion
type FileEvent struct {
	UserID       string
	ClientIP     string
	FileName     string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e FileEvent) MessageID() string {
	return "file"
}

func (e FileEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s performed %s on file %s", e.UserID, e.Operation, e.FileName)
	}
	msg := fmt.Sprintf("%s tried to perform %s on file %s", e.UserID, e.Operation, e.FileName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e FileEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e FileEvent) Facility() int {
	return FacilityAuth
}

func (e FileEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"file": e.FileName,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
