package audit

// PasswordResetEvent is emitted by PUT /user/reset-pwd. Reason is the
// client-facing rejection message.
type PasswordResetEvent struct {
	UserID   string
	ClientIP string
	Success  bool
	Reason   string
}

func (e PasswordResetEvent) MessageID() string {
	return "password-reset"
}

func (e PasswordResetEvent) Message() string {
	if e.Success {
		return "password reset for user " + e.UserID
	}
	if e.Reason == "" {
		return "password reset rejected for user " + e.UserID
	}
	return "password reset rejected for user " + e.UserID + ": " + e.Reason
}

func (e PasswordResetEvent) Severity() Severity {
	if !e.Success {
		return SeverityWarning
	}
	return SeverityNotice
}

func (e PasswordResetEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordResetEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDSubject: {"user": e.UserID},
		SDIDAction:  {"operation": "reset-password", "result": result(e.Success)},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
