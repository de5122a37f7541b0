package helpers

type EnhancedClaims struct {
	*CustomClaims
	Role   string `json:"role"`
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == "admin"
}

func (ec *EnhancedClaims) IsOwner(userID string) bool {
	return ec.UserID == userID
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return "guest"
	}
	return ec.Role
}
