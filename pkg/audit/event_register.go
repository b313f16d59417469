package audit

import (
	"fmt"
	"strconv"
)

// RegisterEvent represents a user registration audit event
type RegisterEvent struct {
	Email        string
	UserID       int64
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e RegisterEvent) MessageID() string {
	return "register"
}

func (e RegisterEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully registered", e.Email)
	}
	msg := fmt.Sprintf("%s failed to register", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RegisterEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RegisterEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RegisterEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "register",
			"result":    result,
		},
	}
	if e.Success {
		sd[SDIDSubject] = map[string]string{
			"kind": "user",
			"id":   strconv.FormatInt(e.UserID, 10),
		}
	}
	return sd
}
