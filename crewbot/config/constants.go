package config

import "time"

// UI and Display Constants
const (
	DefaultFooter = "ATC24 PTFS Ground Crew"

	// Pagination
	LeaderboardPageSize = 10
	StatusPageSize      = 25

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	OperationColor  = 0x1E90FF
	LeaderboardGold = 0xFFD700
	StatusColor     = 0x2ECC71
	EndedColor      = 0x95A5A6

	EmbedDefaultColor = 0x2B2D31
)

// Timeouts
const (
	CommandTimeout       = 10 * time.Second
	SlowCommandThreshold = 2 * time.Second
	PresenceTimeout      = 5 * time.Second
	PlatformCallTimeout  = 10 * time.Second
	ImageRenderTimeout   = 30 * time.Second
	ShutdownTimeout      = 10 * time.Second
	StorageOpenTimeout   = 30 * time.Second
)

// Background work
const (
	StatusRefreshInterval  = 60 * time.Second
	MaxConcurrentRefreshes = 4

	MemberCacheSize = 2048
	MaxAutocomplete = 25
)
