package config

import "time"

// Colors
const (
	ErrorColor        = 0xFF0000
	SuccessColor      = 0x00FF00
	InfoColor         = 0x0099FF
	WarningColor      = 0xFFAA00
	EmbedDefaultColor = 0x2B2D31
	WordleColor       = 0x6AAA64
)

// Timeouts
const (
	DefaultQueryTimeout     = 10 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	JobTimeout              = 2 * time.Minute
	ImageRenderTimeout      = 20 * time.Second
	HTTPClientTimeout       = 10 * time.Second
)

// Pagination
const (
	LeaderboardPageSize = 10
	RecentWinnersLimit  = 5
	LeaderboardImageTop = 10
)
