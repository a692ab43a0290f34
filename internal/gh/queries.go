package gh

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"
	"github.com/robby/ghboards/internal/domain"
)

// BoardItemLimit is the number of items fetched per board. Boards with more
// items are truncated; there is no pagination.
const BoardItemLimit = 100

const boardQuery = `
query ProjectBoard($owner: String!, $number: Int!) {
  viewer {
    login
  }
  user(login: $owner) {
    projectV2(number: $number) {
      ...ProjectBoardFields
    }
  }
  organization(login: $owner) {
    projectV2(number: $number) {
      ...ProjectBoardFields
    }
  }
}

fragment ProjectBoardFields on ProjectV2 {
  id
  title
  url
  items(first: 100) {
    nodes {
      id
      isArchived
      fieldValues(first: 20) {
        nodes {
          __typename
          ... on ProjectV2ItemFieldSingleSelectValue {
            name
            optionId
            field {
              ... on ProjectV2SingleSelectField {
                name
              }
            }
          }
        }
      }
      content {
        __typename
        ... on Issue {
          title
          url
          state
          updatedAt
          repository {
            nameWithOwner
          }
          assignees(first: 10) {
            nodes {
              login
              avatarUrl
            }
          }
        }
        ... on PullRequest {
          title
          url
          state
          updatedAt
          repository {
            nameWithOwner
          }
          assignees(first: 10) {
            nodes {
              login
              avatarUrl
            }
          }
        }
        ... on DraftIssue {
          title
        }
      }
    }
  }
}
`

// FetchBoard fetches a project board in a single round trip and returns it
// normalized, with stats computed. The owner type is inferred from the
// response. Returns ErrBoardNotFound if the board cannot be resolved.
func (c *Client) FetchBoard(ctx context.Context, owner string, number int) (*domain.Board, error) {
	req := graphql.NewRequest(boardQuery)
	req.Var("owner", owner)
	req.Var("number", number)

	var resp boardResponse
	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, err
	}

	board, err := buildBoard(resp, owner, number)
	if err != nil {
		return nil, err
	}

	if len(board.Items) >= BoardItemLimit {
		c.logger.Printf("board %s#%d has at least %d items, remaining items are not fetched", owner, number, BoardItemLimit)
	}

	return board, nil
}

// Viewer returns the login of the authenticated user.
func (c *Client) Viewer(ctx context.Context) (string, error) {
	req := graphql.NewRequest(`
		query {
			viewer {
				login
			}
		}
	`)

	var resp struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to get viewer: %w", err)
	}

	if resp.Viewer.Login == "" {
		return "", &RemoteAPIError{Message: "GitHub returned an empty viewer login."}
	}

	return resp.Viewer.Login, nil
}

// ListProjects lists the boards owned by login, which may be a user or an
// organization. Returns the owner type alongside the projects.
func (c *Client) ListProjects(ctx context.Context, login string) (domain.OwnerType, []domain.Project, error) {
	req := graphql.NewRequest(`
		query($login: String!, $first: Int!) {
			repositoryOwner(login: $login) {
				__typename
				... on ProjectV2Owner {
					projectsV2(first: $first) {
						nodes {
							id
							number
							title
							url
							closed
						}
					}
				}
			}
		}
	`)
	req.Var("login", login)
	req.Var("first", 100) // Fetch up to 100 projects

	var resp struct {
		RepositoryOwner *struct {
			Typename   string `json:"__typename"`
			ProjectsV2 struct {
				Nodes []struct {
					ID     string `json:"id"`
					Number int    `json:"number"`
					Title  string `json:"title"`
					URL    string `json:"url"`
					Closed bool   `json:"closed"`
				} `json:"nodes"`
			} `json:"projectsV2"`
		} `json:"repositoryOwner"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if resp.RepositoryOwner == nil {
		return "", nil, fmt.Errorf("login '%s' not found (neither organization nor user)", login)
	}

	ownerType := domain.OwnerTypeUser
	if resp.RepositoryOwner.Typename == "Organization" {
		ownerType = domain.OwnerTypeOrg
	}

	projects := make([]domain.Project, 0, len(resp.RepositoryOwner.ProjectsV2.Nodes))
	for _, p := range resp.RepositoryOwner.ProjectsV2.Nodes {
		projects = append(projects, domain.Project{
			ID:     p.ID,
			Number: p.Number,
			Title:  p.Title,
			URL:    p.URL,
			Owner:  login,
			Closed: p.Closed,
		})
	}

	return ownerType, projects, nil
}
