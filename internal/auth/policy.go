package auth

import (
	"itam-backend/internal/apperr"
	"itam-backend/internal/models"
)

type Operation string

const (
	OpListAreas   Operation = "areas.list"
	OpGetArea     Operation = "areas.get"
	OpListSchools Operation = "areas.schools"
	OpGetSchool   Operation = "schools.get"

	OpListAssets      Operation = "assets.list"
	OpGetAsset        Operation = "assets.get"
	OpGetAssetBarcode Operation = "assets.barcode"
	OpCreateAsset     Operation = "assets.create"
	OpUpdateAsset     Operation = "assets.update"
	OpDeleteAsset     Operation = "assets.delete"
	OpImportAssets    Operation = "assets.import"
	OpListServices    Operation = "services.list"
	OpGetService      Operation = "services.get"
	OpCreateService   Operation = "services.create"
	OpUpdateService   Operation = "services.update"
	OpListLogs        Operation = "logs.list"
	OpDashboardStats  Operation = "dashboard.stats"
	OpLogin           Operation = "auth.login"
	OpLogout          Operation = "auth.logout"
	OpGetProfile      Operation = "users.me"
	OpUpdateProfile   Operation = "users.update"
	OpUploadAvatar    Operation = "users.avatar"
)

// Rule says who may run an operation. Public rules skip authentication;
// otherwise an empty Roles list admits any authenticated user.
type Rule struct {
	Public bool
	Roles  []models.UserRole
}

var (
	public        = Rule{Public: true}
	authenticated = Rule{}
	adminOnly     = Rule{Roles: []models.UserRole{models.RoleAdmin}}
)

// Policy is the single source of access rules. Routes are registered through
// it, so an operation missing here cannot be served.
var Policy = map[Operation]Rule{
	OpListAreas:   public,
	OpGetArea:     public,
	OpListSchools: public,
	OpGetSchool:   public,
	OpLogin:       public,
	OpLogout:      public,

	OpListAssets:      authenticated,
	OpGetAsset:        authenticated,
	OpGetAssetBarcode: authenticated,
	OpListServices:    authenticated,
	OpGetService:      authenticated,
	OpCreateService:   authenticated,
	OpUpdateService:   authenticated,
	OpListLogs:        authenticated,
	OpDashboardStats:  authenticated,
	OpGetProfile:      authenticated,
	OpUpdateProfile:   authenticated,
	OpUploadAvatar:    authenticated,

	OpCreateAsset:  adminOnly,
	OpUpdateAsset:  adminOnly,
	OpDeleteAsset:  adminOnly,
	OpImportAssets: adminOnly,
}

func RuleFor(op Operation) (Rule, bool) {
	r, ok := Policy[op]
	return r, ok
}

// Authorize evaluates op for user (nil when the caller is anonymous).
func Authorize(op Operation, user *models.User) error {
	rule, ok := Policy[op]
	if !ok {
		return apperr.Newf(apperr.Forbidden, "operation %s is not permitted", op)
	}
	if rule.Public {
		return nil
	}
	if user == nil {
		return apperr.New(apperr.Unauthorized, "not authenticated")
	}
	if len(rule.Roles) == 0 {
		return nil
	}
	for _, r := range rule.Roles {
		if user.Role == r {
			return nil
		}
	}
	return apperr.New(apperr.Forbidden, "access denied")
}
