package audit

import (
	"fmt"
	"strconv"
)

// PasswordEvent represents a password change audit event. ClientIP stays
// empty for resets done through the CLI.
type PasswordEvent struct {
	Email        string
	UserID       int64
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully changed their password", e.Email)
	}
	msg := fmt.Sprintf("%s failed to change their password", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDAction: {
			"operation": "change-password",
			"result":    result,
		},
	}
	if e.UserID != 0 {
		sd[SDIDSubject] = map[string]string{
			"kind": "user",
			"id":   strconv.FormatInt(e.UserID, 10),
		}
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{
			"ip": e.ClientIP,
		}
	}
	return sd
}
