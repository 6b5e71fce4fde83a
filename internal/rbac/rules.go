package rbac

// Default policy. Workers take tests and see their own results; HR manages
// tests and reviews everyone's results; admin does everything.
var RolePermissions = map[string][]string{
	"worker": {
		"test:view",
		"submission:create",
		"submission:view-own",
		"result:view-own",
	},
	"hr": {
		"test:create",
		"test:view",
		"test:view-full",
		"test:list",
		"submission:view-all",
		"submission:score",
		"result:view-all",
	},
	"admin": {
		"*", // everything
	},
}
