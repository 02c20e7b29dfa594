package minecraft

// User types known to the game
const (
	UserTypeMSA    = "msa"
	UserTypeMojang = "mojang"
	UserTypeLegacy = "legacy"
)

// LaunchAuthData is the identity the game is started with. It is provided by the
// caller and only read while building the launch arguments
type LaunchAuthData interface {
	// GetAccessToken returns the access token (strictly required)
	GetAccessToken() string
	// GetUUID returns the users UUID (strictly required)
	GetUUID() string
	// GetPlayerName returns the users player name (the one that also appears in game)
	GetPlayerName() string
	// GetUserType returns the users user type (legacy, mojang or msa)
	GetUserType() string
	// GetXUID returns the users XUID (only for xbox live accounts with user type "msa")
	GetXUID() string
}
