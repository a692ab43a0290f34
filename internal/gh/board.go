package gh

import (
	"errors"
	"strings"

	"github.com/robby/ghboards/internal/domain"
)

// ErrBoardNotFound indicates that neither the user nor the organization
// branch of the board query resolved to a project.
var ErrBoardNotFound = errors.New("Project board not found or access denied.")

// singleSelectValueType is the __typename of single-select field values.
const singleSelectValueType = "ProjectV2ItemFieldSingleSelectValue"

type fieldValueNode struct {
	Typename string  `json:"__typename"`
	Name     *string `json:"name"`
	Field    *struct {
		Name *string `json:"name"`
	} `json:"field"`
}

type itemNode struct {
	ID          string `json:"id"`
	IsArchived  bool   `json:"isArchived"`
	FieldValues *struct {
		Nodes []fieldValueNode `json:"nodes"`
	} `json:"fieldValues"`
	Content contentNode `json:"content"`
}

type projectNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Items *struct {
		Nodes []itemNode `json:"nodes"`
	} `json:"items"`
}

type ownerProjectNode struct {
	ProjectV2 *projectNode `json:"projectV2"`
}

type boardResponse struct {
	Viewer *struct {
		Login string `json:"login"`
	} `json:"viewer"`
	User         *ownerProjectNode `json:"user"`
	Organization *ownerProjectNode `json:"organization"`
}

// deriveStatus finds the single-select value of the field named "status"
// and classifies its display text.
func deriveStatus(values []fieldValueNode) (string, domain.StatusType) {
	status := domain.NoStatus

	for _, value := range values {
		if value.Typename != singleSelectValueType || value.Field == nil || value.Field.Name == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(*value.Field.Name)) != "status" {
			continue
		}
		if value.Name != nil {
			if name := strings.TrimSpace(*value.Name); name != "" {
				status = name
			}
		}
		break
	}

	return status, domain.ClassifyStatus(status)
}

// assigneesOf keeps assignees with a non-empty login.
func assigneesOf(nodes []AssigneeNode) []domain.Assignee {
	assignees := make([]domain.Assignee, 0, len(nodes))
	for _, node := range nodes {
		if node.Login == "" {
			continue
		}
		assignees = append(assignees, domain.Assignee{Login: node.Login, AvatarURL: node.AvatarURL})
	}
	return assignees
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeItem converts one raw item node into a BoardItem.
// projectURL is used for items without their own URL (drafts).
func normalizeItem(node itemNode, projectURL, viewerLogin string) domain.BoardItem {
	var fieldValues []fieldValueNode
	if node.FieldValues != nil {
		fieldValues = node.FieldValues.Nodes
	}
	status, statusType := deriveStatus(fieldValues)

	item := domain.BoardItem{
		ID:          node.ID,
		Status:      status,
		StatusType:  statusType,
		ContentType: domain.ContentTypeDraft,
		Assignees:   []domain.Assignee{},
	}

	var title, url string
	switch content := node.Content.Value.(type) {
	case *Issue:
		item.ContentType = domain.ContentTypeIssue
		item.Assignees = assigneesOf(content.Assignees)
		item.State = optional(content.State)
		item.RepoFullName = optional(content.Repository)
		item.UpdatedAt = content.UpdatedAt
		title, url = content.Title, content.URL
	case *PullRequest:
		item.ContentType = domain.ContentTypePullRequest
		item.Assignees = assigneesOf(content.Assignees)
		item.State = optional(content.State)
		item.RepoFullName = optional(content.Repository)
		item.UpdatedAt = content.UpdatedAt
		title, url = content.Title, content.URL
	case *DraftIssue:
		title = content.Title
	case nil:
		// Private, deleted or unknown content
	}

	item.Title = strings.TrimSpace(title)
	if item.Title == "" {
		item.Title = domain.Untitled
	}

	item.URL = url
	if item.URL == "" {
		item.URL = projectURL
	}

	closed := item.State != nil && (*item.State == "CLOSED" || *item.State == "MERGED")
	item.IsPending = !(node.IsArchived || statusType == domain.StatusDone || closed)

	if viewerLogin != "" {
		for _, assignee := range item.Assignees {
			if strings.EqualFold(assignee.Login, viewerLogin) {
				item.IsAssignedToViewer = true
				break
			}
		}
	}

	return item
}

// buildBoard selects the resolved owner branch, normalizes every item and
// computes the board stats. Owner type is inferred from the branch.
func buildBoard(resp boardResponse, owner string, number int) (*domain.Board, error) {
	var project *projectNode
	ownerType := domain.OwnerTypeUser

	switch {
	case resp.User != nil && resp.User.ProjectV2 != nil:
		project = resp.User.ProjectV2
	case resp.Organization != nil && resp.Organization.ProjectV2 != nil:
		project = resp.Organization.ProjectV2
		ownerType = domain.OwnerTypeOrg
	default:
		return nil, ErrBoardNotFound
	}

	var viewerLogin string
	if resp.Viewer != nil {
		viewerLogin = resp.Viewer.Login
	}

	var nodes []itemNode
	if project.Items != nil {
		nodes = project.Items.Nodes
	}

	items := make([]domain.BoardItem, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, normalizeItem(node, project.URL, viewerLogin))
	}

	return &domain.Board{
		ID:          project.ID,
		Title:       project.Title,
		URL:         project.URL,
		Owner:       owner,
		Number:      number,
		OwnerType:   ownerType,
		ViewerLogin: viewerLogin,
		Stats:       domain.ComputeStats(items),
		Items:       items,
	}, nil
}
