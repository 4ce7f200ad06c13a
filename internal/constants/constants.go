package constants

import "time"

// Centralized constants for headers, env keys and OpenAI integration.
const (
	// Environment variable keys
	EnvPrefix         = "ARCANE"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvSessionSecret  = "SESSION_SECRET"
	EnvHealthcheckURL = "HEALTHCHECK_URL"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderSeatToken     = "X-Seat-Token"

	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
	CacheControlAssets  = "public, max-age=86400"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL               = "https://api.openai.com"
	OpenAIChatCompletionsPath   = "/v1/chat/completions"
	OpenAIImagesGenerationsPath = "/v1/images/generations"

	// OpenAI model names and typical parameters
	OpenAIChatModel           = "gpt-5-nano"
	OpenAIImageModel          = "gpt-image-1"
	OpenAIImageSizeDefault    = "1024x1024"
	OpenAIImageQualityDefault = "low"

	// OpenAI response JSON fields
	OpenAIResponseFieldB64JSON = "b64_json"

	// Description limit in words
	DescriptionMaxWords = 15

	// Firestore
	FirestoreScope       = "https://www.googleapis.com/auth/datastore"
	FirestoreCollection  = "cards"
	EnvFirestoreEmulator = "FIRESTORE_EMULATOR_HOST"

	// Card image size after normalization
	CardImageSize = 256
)

// Defaults used when configuration omits a value.
const (
	DefaultServerAddress     = ":8080"
	DefaultDatabasePath      = "arcane-clash.db"
	DefaultRedisTTL          = 24 * time.Hour
	DefaultOpenAITimeout     = 60 * time.Second
	DefaultGenerationTimeout = 90 * time.Second
	DefaultCombatDelay       = 1500 * time.Millisecond
	DefaultLeaderboardLimit  = 10
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteCards         = "/cards"
	RouteAssetsCards   = "/assets/cards"
	RouteLeaderboard   = "/leaderboard"
	RouteVersion       = "/version"
	RouteGames         = "/games"
	RouteGameByID      = "/games/:gameID"
	RouteGameIntents   = "/games/:gameID/intents"
	RouteGameRestart   = "/games/:gameID/restart"
	RouteGameStream    = "/games/:gameID/stream"
	RouteHealth        = "/healthz"
	ParamGameID        = "gameID"
	ParamFile          = "file"
	QueryCardType      = "type"
	QueryLimit         = "limit"
	QuerySeatToken     = "token"
	AssetURLPathPrefix = RouteAPIPrefix + RouteAssetsCards + "/"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrInvalidGameID          = "Invalid game ID"
	ErrGameNotFound           = "Game not found"
	ErrInvalidCardType        = "Invalid card type"
	ErrFailedFetchCards       = "Failed to fetch cards"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrAssetNotFound          = "Asset not found"
	ErrCannotStartGame        = "Cannot start game"
	ErrFailedCreateGame       = "Failed to create game"
	ErrFailedRestartGame      = "Failed to restart game"
	ErrFailedApplyIntent      = "Failed to apply intent"
	ErrIntentRejected         = "Intent rejected"
	ErrNotYourTurn            = "Not your turn"
	ErrGameOver               = "Game is over"
	ErrSystemIntent           = "Intent type is reserved for the server"
	ErrStreamUnavailable      = "Live stream unavailable"
	ErrPlayerNameExceeds      = "Player name exceeds 32 characters"

	ErrAuthRequired     = "Seat token required"
	ErrInvalidSeatToken = "Invalid seat token"
	ErrSeatMismatch     = "Seat token does not match player_index"

	ErrEnvNotSetFmt                   = "%s not set on server"
	ErrRequestToOpenAIFailed          = "Request to OpenAI failed"
	ErrOpenAIImageGenerationFailed    = "OpenAI image generation failed"
	ErrFailedDecodeOpenAIResponse     = "Failed to decode OpenAI response"
	ErrOpenAIReturnedNoImageData      = "OpenAI returned no image data"
	ErrFailedDecodeImageFromBase64    = "Failed to decode image from base64"
	ErrOpenAIReturnedUnsupportedImage = "OpenAI returned unsupported image payload"
	ErrFailedResizeImage              = "Failed to resize image"
)

// Limits
const (
	MaxPlayerNameLength = 32
)

// Logging field names
const (
	LogFieldGameID     = "game_id"
	LogFieldGeneration = "generation"
	LogFieldPlayerIdx  = "player_index"
	LogFieldCardID     = "card_id"
	LogFieldCardTitle  = "card_title"
	LogFieldIntent     = "intent"
	LogFieldPhase      = "phase"
	LogFieldSource     = "source"
	LogFieldName       = "name"
	LogFieldKey        = "key"
	LogFieldAddr       = "addr"
	LogFieldCount      = "count"
	LogFieldBackend    = "backend"
)
