package audit

import "fmt"

// Blog operations
const (
	BlogCreate = "create"
	BlogUpdate = "update"
	BlogDelete = "delete"
	BlogStatus = "status"
)

// BlogEvent records a change to a blog post
type BlogEvent struct {
	UserID       string
	ClientIP     string
	BlogID       string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e BlogEvent) MessageID() string {
	return "blog"
}

func (e BlogEvent) Message() string {
	target := "a blog"
	if e.BlogID != "" {
		target = "blog " + e.BlogID
	}
	if e.Success {
		return fmt.Sprintf("%s performed %s on %s", e.UserID, e.Operation, target)
	}
	msg := fmt.Sprintf("%s tried to perform %s on %s", e.UserID, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e BlogEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e BlogEvent) Facility() int {
	return FacilityAuth
}

func (e BlogEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"blog": e.BlogID,
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
