package model

//go:generate go run github.com/dmarkham/enumer -type Role -trimprefix Role -transform lower -json -sql -output role.gen.go

// Role is the authorization level of a user account.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)
