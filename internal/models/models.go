package models

import (
	"time"
)

// CheckState is the tri-state checkbox value of a folder in the drive tree
type CheckState string

const (
	CheckChecked       CheckState = "checked"
	CheckIndeterminate CheckState = "indeterminate"
	CheckUnchecked     CheckState = "unchecked"
)

// Screen identifies a top-level view of the application
type Screen string

const (
	ScreenLogin      Screen = "login"
	ScreenSignup     Screen = "signup"
	ScreenOnboarding Screen = "onboarding"
	ScreenHome       Screen = "home"
	ScreenChat       Screen = "chat"
	ScreenSettings   Screen = "settings"
)

// MessageType is the author of a chat message
type MessageType string

const (
	MessageUser MessageType = "user"
	MessageBot  MessageType = "bot"
)

// FileRecord is a single document in the flat file catalog
type FileRecord struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Size       string `json:"size" yaml:"size"`
	Modified   string `json:"modified" yaml:"modified"`
	ModifiedBy string `json:"modified_by" yaml:"modified_by"`
	Path       string `json:"path" yaml:"path"`
	Icon       string `json:"icon,omitempty" yaml:"icon,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty" yaml:"is_favorite,omitempty"`
}

// FolderDef is one entry of the fixed folder catalog the drive tree is built from
type FolderDef struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Icon       string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	SubFolders []FolderDef `json:"sub_folders,omitempty" yaml:"sub_folders,omitempty"`
}

// FolderNode is a built drive folder. Files is a filtered view of the flat
// catalog, never the source of truth.
type FolderNode struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Icon       string        `json:"icon,omitempty"`
	IsExpanded bool          `json:"is_expanded"`
	Files      []FileRecord  `json:"files"`
	SubFolders []*FolderNode `json:"sub_folders,omitempty"`
}

// APIKey is an external document-service key the user has registered
type APIKey struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Key         string     `json:"key,omitempty" yaml:"key"`
	MaskedKey   string     `json:"masked_key" yaml:"masked_key"`
	Created     string     `json:"created" yaml:"created"` // YYYY-MM-DD
	LastUsed    string     `json:"last_used" yaml:"last_used"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty" yaml:"-"`
	IsConnected bool       `json:"is_connected" yaml:"is_connected"`
}

// ChatMessage is one entry of the chat transcript
type ChatMessage struct {
	ID        string       `json:"id"`
	Type      MessageType  `json:"type"`
	Content   string       `json:"content"`
	Files     []FileRecord `json:"files,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Config is the local, per-workspace configuration
type Config struct {
	ServerURL          string `json:"server_url,omitempty"`
	CatalogPath        string `json:"catalog_path,omitempty"`
	WatchCatalog       bool   `json:"watch_catalog,omitempty"`
	LastEmail          string `json:"last_email,omitempty"`
	AuthToken          string `json:"auth_token,omitempty"`
	OnboardingComplete bool   `json:"onboarding_complete,omitempty"`
}

// User is an account on the auth server
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	OAuth    int       `json:"oAuth"`
	Depart   string    `json:"depart,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Level    string    `json:"level,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}
