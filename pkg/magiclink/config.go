package magiclink

// Config controls passwordless login behavior.
type Config struct {
	AutoProvision       bool   `env:"MAGIC_LINK_AUTO_PROVISION" envDefault:"true"`   // AutoProvision creates a user for unknown identifiers.
	RequireSameBrowser  bool   `env:"MAGIC_LINK_SAME_BROWSER" envDefault:"false"`    // RequireSameBrowser binds the link to the requesting browser.
	RevokeOtherSessions bool   `env:"MAGIC_LINK_REVOKE_SESSIONS" envDefault:"false"` // RevokeOtherSessions kills existing sessions on login.
	LinkBase            string `env:"MAGIC_LINK_BASE_URL"`                           // LinkBase prefixes the token in delivered links.
}
