package audit

import "fmt"

// AccountEvent records an operator changing an account from the CLI
type AccountEvent struct {
	Username string
	// Change is e.g. "role=admin" or "active=false"
	Change       string
	Success      bool
	ErrorMessage string
}

func (e AccountEvent) MessageID() string {
	return "account"
}

func (e AccountEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("operator set %s on %s", e.Change, e.Username)
	}
	msg := fmt.Sprintf("operator failed to set %s on %s", e.Change, e.Username)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AccountEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e AccountEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user": e.Username,
		},
		SDIDAction: {
			"operation": e.Change,
			"result":    result(e.Success),
		},
	}
}
