package constants

import "fmt"

const (
	RoleAdmin = "admin"
)

// Error message templates for protected operations
const (
	ErrOnlyAdminsCanAccess = "Only administrators may access %s."
	ErrModuleDisabled      = "%s module is not enabled"
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func ModuleDisabled(module string) string {
	return fmt.Sprintf(ErrModuleDisabled, module)
}
