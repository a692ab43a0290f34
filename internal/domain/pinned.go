package domain

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidProjectURL indicates a string that is not a usable GitHub project URL.
	ErrInvalidProjectURL = errors.New("invalid project URL")
	// ErrUnsupportedHost indicates a project URL on a host other than github.com.
	ErrUnsupportedHost = fmt.Errorf("%w: Only github.com project URLs are supported.", ErrInvalidProjectURL)
	// ErrProjectPath indicates a github.com URL that is not a project board path.
	ErrProjectPath = fmt.Errorf("%w: Use a GitHub project URL like https://github.com/users/<owner>/projects/<number>.", ErrInvalidProjectURL)
)

// projectPathPattern matches /users/<owner>/projects/<number> and the orgs variant.
var projectPathPattern = regexp.MustCompile(`(?i)^/(users|orgs)/([^/]+)/projects/(\d+)/?$`)

// PinnedProject identifies a board a user has pinned.
type PinnedProject struct {
	Owner     string    `json:"owner"`
	Number    int       `json:"number"`
	OwnerType OwnerType `json:"ownerType"`
}

// Key returns the identity key of the project: lower(owner) + "#" + number.
func (p PinnedProject) Key() string {
	return strings.ToLower(p.Owner) + "#" + strconv.Itoa(p.Number)
}

// URL renders the canonical github.com URL of the board.
func (p PinnedProject) URL() string {
	scope := "users"
	if p.OwnerType == OwnerTypeOrg {
		scope = "orgs"
	}
	return fmt.Sprintf("https://github.com/%s/%s/projects/%d", scope, p.Owner, p.Number)
}

// Validate checks that the project has an owner, a positive number and a known owner type.
func (p PinnedProject) Validate() error {
	if strings.TrimSpace(p.Owner) == "" {
		return errors.New("owner is required")
	}
	if p.Number <= 0 {
		return fmt.Errorf("project number must be positive, got %d", p.Number)
	}
	if !p.OwnerType.Valid() {
		return fmt.Errorf("invalid owner type %q (must be user or org)", p.OwnerType)
	}
	return nil
}

// ParseProjectURL parses a GitHub project board URL such as
// https://github.com/orgs/acme/projects/3 into a PinnedProject.
// Errors wrap ErrUnsupportedHost or ErrProjectPath so callers can tell them apart.
func ParseProjectURL(value string) (PinnedProject, error) {
	raw := strings.TrimSpace(value)

	parsed, err := url.Parse(raw)
	if err != nil {
		return PinnedProject{}, fmt.Errorf("%w: %v", ErrInvalidProjectURL, err)
	}

	if strings.ToLower(parsed.Hostname()) != "github.com" {
		return PinnedProject{}, ErrUnsupportedHost
	}

	match := projectPathPattern.FindStringSubmatch(parsed.EscapedPath())
	if match == nil {
		return PinnedProject{}, ErrProjectPath
	}

	number, err := strconv.Atoi(match[3])
	if err != nil || number <= 0 {
		return PinnedProject{}, ErrProjectPath
	}

	ownerType := OwnerTypeUser
	if strings.EqualFold(match[1], "orgs") {
		ownerType = OwnerTypeOrg
	}

	return PinnedProject{
		Owner:     match[2],
		Number:    number,
		OwnerType: ownerType,
	}, nil
}

// NormalizePinnedProjects drops invalid entries, trims owners and
// de-duplicates by identity key. A later duplicate replaces the earlier
// entry's value but keeps its position.
func NormalizePinnedProjects(projects []PinnedProject) []PinnedProject {
	result := make([]PinnedProject, 0, len(projects))
	index := make(map[string]int, len(projects))

	for _, project := range projects {
		project.Owner = strings.TrimSpace(project.Owner)
		if project.Validate() != nil {
			continue
		}

		key := project.Key()
		if i, seen := index[key]; seen {
			result[i] = project
			continue
		}
		index[key] = len(result)
		result = append(result, project)
	}

	return result
}
