package authorize

type Action string
type Resource string
type Role string

// Subject is whatever the enforcer is asked about: a username or a role.
type Subject string

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpload Action = "upload"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionList: {}, ActionUpload: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	ResourceVlogPost       Resource = "vlog_post"
	ResourceContactMessage Resource = "contact_message"
	ResourceMedia          Resource = "media"
)

var KnownResources = map[Resource]struct{}{
	ResourceVlogPost: {}, ResourceContactMessage: {}, ResourceMedia: {},
}

// ----------------------------
// Roles
// ----------------------------

const (
	RoleAdmin Role = "admin"
)

// PermissionPolicy is one "p" line: role may (or may not) act on object.
type PermissionPolicy struct {
	Role   Role
	Object Resource
	Action Action
	Effect PolicyEffect
}

// DefaultPolicies is the baseline loaded into every enforcer.
var DefaultPolicies = []PermissionPolicy{
	{RoleAdmin, ResourceVlogPost, ActionCreate, EffectAllow},
	{RoleAdmin, ResourceMedia, ActionUpload, EffectAllow},
	{RoleAdmin, ResourceContactMessage, ActionList, EffectAllow},
	{RoleAdmin, ResourceContactMessage, ActionRead, EffectAllow},
}
