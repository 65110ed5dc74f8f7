package docsec

import "lexora.org/internal/auth"

// levelRoles is the fixed security-level → qualifying-roles policy. The
// document owner qualifies at every level regardless of role.
var levelRoles = map[SecurityLevel][]auth.Role{
	LevelPublic: nil, // anyone
	LevelInternal: {
		auth.RoleSuperAdmin, auth.RolePartner,
		auth.RoleSeniorAssociate, auth.RoleJuniorAssociate,
	},
	LevelConfidential: {auth.RoleSuperAdmin, auth.RolePartner},
	LevelRestricted:   {auth.RoleSuperAdmin},
}

// levelAllows evaluates the static policy for one document and one user.
func levelAllows(level SecurityLevel, ownerID, userID string, role auth.Role) bool {
	if level == LevelPublic {
		return true
	}
	if ownerID != "" && ownerID == userID {
		return true
	}
	for _, allowed := range levelRoles[level] {
		if role == allowed {
			return true
		}
	}
	return false
}
