// Package domain defines the normalized domain types for GitHub Projects v2 boards.
// These types represent the core concepts independent of the GitHub GraphQL API structure.
package domain

import "time"

// OwnerType tells whether a board belongs to a user or an organization.
type OwnerType string

const (
	OwnerTypeUser OwnerType = "user"
	OwnerTypeOrg  OwnerType = "org"
)

// Valid reports whether t is one of the known owner types.
func (t OwnerType) Valid() bool {
	return t == OwnerTypeUser || t == OwnerTypeOrg
}

// StatusType is the lifecycle category derived from an item's free-text status.
type StatusType string

const (
	StatusDone       StatusType = "done"
	StatusInProgress StatusType = "in_progress"
	StatusTodo       StatusType = "todo"
	StatusUnknown    StatusType = "unknown"
)

// ContentType constants for board item types.
type ContentType string

const (
	ContentTypeIssue       ContentType = "issue"
	ContentTypePullRequest ContentType = "pull_request"
	ContentTypeDraft       ContentType = "draft"
)

// NoStatus is the status text used when an item has no usable Status value.
const NoStatus = "No status"

// Untitled is the title used when an item's content carries no title.
const Untitled = "Untitled"

// Assignee is a user assigned to an issue or pull request.
type Assignee struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// BoardItem represents one row of a project board in a normalized format.
// It is derived from a single upstream item node and never persisted.
type BoardItem struct {
	ID                 string      `json:"id"`                 // GitHub ProjectV2Item node ID
	Title              string      `json:"title"`              // Content title, "Untitled" when blank
	URL                string      `json:"url"`                // Content URL, project URL for drafts
	Status             string      `json:"status"`             // Display text of the Status field
	StatusType         StatusType  `json:"statusType"`         // Classified lifecycle category
	IsPending          bool        `json:"isPending"`          // Not archived, not done, not closed/merged
	IsAssignedToViewer bool        `json:"isAssignedToViewer"` // Viewer is among the assignees
	Assignees          []Assignee  `json:"assignees"`          // Empty for drafts
	RepoFullName       *string     `json:"repoFullName"`       // owner/repo, only for Issue/PR
	ContentType        ContentType `json:"contentType"`        // issue, pull_request or draft
	State              *string     `json:"state"`              // OPEN, CLOSED, MERGED (Issue/PR only)
	UpdatedAt          *time.Time  `json:"updatedAt"`          // Last content update (Issue/PR only)
}

// Stats holds board-level counts derived purely from the items.
type Stats struct {
	Total            int `json:"total"`
	Pending          int `json:"pending"`
	AssignedToViewer int `json:"assignedToViewer"`
	Done             int `json:"done"`
}

// Board is the aggregate result of a single board fetch.
type Board struct {
	ID          string      `json:"id"`          // GitHub ProjectV2 node ID
	Title       string      `json:"title"`       // Project title
	URL         string      `json:"url"`         // Project URL
	Owner       string      `json:"owner"`       // Owner login as requested
	Number      int         `json:"number"`      // Project number within the owner's namespace
	OwnerType   OwnerType   `json:"ownerType"`   // Inferred from which owner branch resolved
	ViewerLogin string      `json:"viewerLogin"` // Login of the authenticated user
	Stats       Stats       `json:"stats"`
	Items       []BoardItem `json:"items"`
}

// BoardCard summarizes one pinned board in an aggregation.
// When the board could not be fetched, HasAccess is false and Error is set.
type BoardCard struct {
	Owner         string     `json:"owner"`
	Number        int        `json:"number"`
	OwnerType     OwnerType  `json:"ownerType"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Stats         Stats      `json:"stats"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt"`
	HasAccess     bool       `json:"hasAccess"`
	Error         *string    `json:"error"`
}

// Project is a board as listed under an owner, without its items.
type Project struct {
	ID     string // GitHub Project node ID
	Number int    // Project number within the owner's namespace
	Title  string // Project title
	URL    string // Project URL
	Owner  string // Owner login (organization or user)
	Closed bool   // Whether the project is closed
}
