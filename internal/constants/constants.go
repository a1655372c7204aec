package constants

// Context and session keys
const (
	ContextKeyToken   = "token"
	SessionCookieName = "workspace_session"
	SessionKeyToken   = "token"
	TokenHeader       = "token"
)

// Message limits
const (
	MaxMessageLength = 1000
	MinMessageLength = 1
	PageSize         = 50
	EndOfMessages    = -1
)

// Notification limits
const (
	NotificationLimit         = 20
	NotificationPreviewLength = 20
	NoContainer               = -1
)

// Reactions
const (
	ReactThumbsUp = 1
)

// Account limits
const (
	MinPasswordLength = 6
	MinNameLength     = 1
	MaxNameLength     = 50
	MinHandleLength   = 3
	MaxHandleLength   = 20
	MinChannelName    = 1
	MaxChannelName    = 20
)

// Permission ids used by the admin API
const (
	PermissionOwner  = 1
	PermissionMember = 2
)

const (
	RemovedUserFirstName = "Removed"
	RemovedUserLastName  = "user"
	RemovedMessageText   = "Removed user"
	DefaultProfileImgURL = "/static/default.jpg"
)

// BotEmail belongs to the hangman bot's account and cannot be registered.
const BotEmail = "bot@bot.com"
