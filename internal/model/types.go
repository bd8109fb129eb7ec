package model

import "time"

// Tier is the discrete heat classification of a venue.
type Tier string

const (
	TierLow    Tier = "Morno"
	TierMedium Tier = "Fervendo"
	TierHigh   Tier = "Explodindo"
)

// Trend is the direction of the last heat change.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Level is the user's progression tier.
type Level string

const (
	LevelCurioso     Level = "Curioso"
	LevelEsquentando Level = "Esquentando"
	LevelFervendo    Level = "Fervendo"
	LevelIncendiario Level = "Incendiário"
)

// ActionKind is a user action performed at a venue.
type ActionKind string

const (
	ActionCheckIn ActionKind = "checkin"
	ActionPost    ActionKind = "post"
)

// Valid reports whether k is a known action.
func (k ActionKind) Valid() bool {
	return k == ActionCheckIn || k == ActionPost
}

// MissionKind categorises a mission.
type MissionKind string

const (
	MissionPost    MissionKind = "post"
	MissionCheckIn MissionKind = "checkin"
	MissionSocial  MissionKind = "social"
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// User is the signed-in participant. Level is always derived from XP.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	XP          int        `json:"xp"`
	Level       Level      `json:"level"`
	Streak      int        `json:"streak"`
	CheckIns    int        `json:"checkIns"`
	LastCheckIn *time.Time `json:"lastCheckIn,omitempty"`
	JoinedAt    time.Time  `json:"joinedAt"`
}

// Venue is a nightlife place with a heat score in [0,100].
type Venue struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	HeatValue    int       `json:"heatValue"`
	HeatStatus   Tier      `json:"heatStatus"`
	CheckInCount int       `json:"checkInCount"`
	VideoCount   int       `json:"videoCount"`
	Location     LatLng    `json:"location"`
	Trend        Trend     `json:"trend"`
	LastUpdate   time.Time `json:"lastUpdate"`
}

// Post is a feed entry authored at a venue.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserLevel Level     `json:"userLevel"`
	VenueID   string    `json:"venueId"`
	VenueName string    `json:"venueName"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
}

// Mission is read-only seed data describing a time-limited challenge.
type Mission struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	RewardXP    int         `json:"rewardXp"`
	Completed   bool        `json:"completed"`
	ExpiresIn   int         `json:"expiresIn"`
	Kind        MissionKind `json:"type"`
}

// Notification is a transient user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
