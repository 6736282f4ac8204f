package audit

import "fmt"

// PermissionDeniedEvent records a request refused for an insufficient role
type PermissionDeniedEvent struct {
	UserID   string
	ClientIP string
	Role     string
	Required string
	Method   string
	Path     string
}

func (e PermissionDeniedEvent) MessageID() string {
	return "check"
}

func (e PermissionDeniedEvent) Message() string {
	return fmt.Sprintf("%s (%s) was denied %s %s: %s or above required", e.UserID, e.Role, e.Method, e.Path, e.Required)
}

func (e PermissionDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e PermissionDeniedEvent) Facility() int {
	return FacilityAuth
}

func (e PermissionDeniedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
			"role": e.Role,
		},
		SDIDSubject: {
			"required": e.Required,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Method + " " + e.Path,
			"result":    "denied",
		},
	}
}
