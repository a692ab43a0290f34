package gh

import (
	"encoding/json"
	"time"
)

// Content is the payload behind a project item: *Issue, *PullRequest or
// *DraftIssue. A nil Content means the item is private, deleted or of an
// unknown type.
type Content interface {
	isContent()
}

// Issue is an issue attached to a project.
type Issue struct {
	Title      string
	URL        string
	State      string
	UpdatedAt  *time.Time
	Repository string // nameWithOwner, empty if unavailable
	Assignees  []AssigneeNode
}

// PullRequest is a pull request attached to a project.
type PullRequest struct {
	Title      string
	URL        string
	State      string
	UpdatedAt  *time.Time
	Repository string // nameWithOwner, empty if unavailable
	Assignees  []AssigneeNode
}

// DraftIssue is a project-only draft. It has no URL, state or assignees.
type DraftIssue struct {
	Title string
}

func (*Issue) isContent()       {}
func (*PullRequest) isContent() {}
func (*DraftIssue) isContent()  {}

// AssigneeNode is an assignee as returned by the API.
type AssigneeNode struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// contentNode decodes the `content` union by its __typename.
type contentNode struct {
	Value Content
}

func (c *contentNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Typename   string     `json:"__typename"`
		Title      string     `json:"title"`
		URL        string     `json:"url"`
		State      string     `json:"state"`
		UpdatedAt  *time.Time `json:"updatedAt"`
		Repository *struct {
			NameWithOwner string `json:"nameWithOwner"`
		} `json:"repository"`
		Assignees *struct {
			Nodes []AssigneeNode `json:"nodes"`
		} `json:"assignees"`
	}

	c.Value = nil
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var repo string
	if raw.Repository != nil {
		repo = raw.Repository.NameWithOwner
	}
	var assignees []AssigneeNode
	if raw.Assignees != nil {
		assignees = raw.Assignees.Nodes
	}

	switch raw.Typename {
	case "Issue":
		c.Value = &Issue{
			Title:      raw.Title,
			URL:        raw.URL,
			State:      raw.State,
			UpdatedAt:  raw.UpdatedAt,
			Repository: repo,
			Assignees:  assignees,
		}
	case "PullRequest":
		c.Value = &PullRequest{
			Title:      raw.Title,
			URL:        raw.URL,
			State:      raw.State,
			UpdatedAt:  raw.UpdatedAt,
			Repository: repo,
			Assignees:  assignees,
		}
	case "DraftIssue":
		c.Value = &DraftIssue{Title: raw.Title}
	}

	return nil
}
