package vercel

// Credentials are returned by the OAuth code exchange and authorize every
// other call against the Vercel API.
type Credentials struct {
	TokenType      string  `json:"token_type"`
	AccessToken    string  `json:"access_token"`
	InstallationID string  `json:"installation_id"`
	UserID         string  `json:"user_id"`
	TeamID         *string `json:"team_id"`
}

// IsTeam reports whether the integration was installed on a team rather
// than a personal account.
func (c Credentials) IsTeam() bool {
	return c.UserID != "" && c.TeamID != nil && *c.TeamID != ""
}

// Team returns the team id, or "" for a personal installation.
func (c Credentials) Team() string {
	if c.TeamID == nil {
		return ""
	}
	return *c.TeamID
}

// Project is the subset of a Vercel project this integration reads.
type Project struct {
	AccountID string `json:"accountId"`
	ID        string `json:"id"`
	Name      string `json:"name"`
}

// LogDrainType is the format logs are delivered in.
type LogDrainType string

const (
	LogDrainJSON   LogDrainType = "json"
	LogDrainNDJSON LogDrainType = "ndjson"
	LogDrainSyslog LogDrainType = "syslog"
)

// LogDrainTypes lists the accepted formats in display order.
var LogDrainTypes = []LogDrainType{LogDrainJSON, LogDrainNDJSON, LogDrainSyslog}

// LogDrain is a configured log destination.
type LogDrain struct {
	ClientID        string       `json:"clientId"`
	ConfigurationID string       `json:"configurationId"`
	CreatedAt       int64        `json:"createdAt"`
	ID              string       `json:"id"`
	Type            LogDrainType `json:"type"`
	Name            string       `json:"name"`
	OwnerID         string       `json:"ownerId"`
	ProjectID       *string      `json:"projectId"`
	URL             string       `json:"url"`
}

// CreateLogDrainRequest is the body of a log drain creation call.
type CreateLogDrainRequest struct {
	Name string       `json:"name" validate:"required"`
	Type LogDrainType `json:"type" validate:"required,oneof=json ndjson syslog"`
	// URL must be http(s):// for json and ndjson drains, syslog: or
	// syslog+tls: for syslog drains.
	URL       string `json:"url" validate:"required"`
	ProjectID string `json:"projectId,omitempty"`
	// Secret signs delivery headers so the receiver can verify them.
	Secret string `json:"secret,omitempty"`
}

// TokenRequest carries the parameters of the OAuth code exchange.
type TokenRequest struct {
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
}
