package github

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommentMarkerKey identifies the single summary comment posted on a pull
// request.
const CommentMarkerKey = "comment_generated_with_https://github.com/kestra-io/kestra-devtools"

const (
	commentsPerPage = 100
	maxCommentPages = 1000
)

// Comment is the part of an issue comment the search works on.
type Comment struct {
	ID        int64  `json:"id"`
	NodeID    string `json:"nodeId"`
	Body      string `json:"body"`
	User      string `json:"user,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// FindCommentInput selects a comment on an issue or pull request. Empty
// filters match every comment. Direction is "first" (default) or "last" and
// Nth counts matches from that end, starting at 0.
type FindCommentInput struct {
	IssueNumber   int
	CommentAuthor string
	BodyIncludes  string
	BodyRegex     string
	Direction     string
	Nth           int
}

// FindCommentPredicate reports whether c passes every filter of in. A
// comment without author or body is not filtered on that field.
func FindCommentPredicate(in *FindCommentInput, c *Comment) (bool, error) {
	if in.CommentAuthor != "" && c.User != "" && c.User != in.CommentAuthor {
		return false, nil
	}
	if in.BodyIncludes != "" && c.Body != "" && !strings.Contains(c.Body, in.BodyIncludes) {
		return false, nil
	}
	if in.BodyRegex != "" && c.Body != "" {
		re, err := stringToRegex(in.BodyRegex)
		if err != nil {
			return false, err
		}
		if !re.MatchString(c.Body) {
			return false, nil
		}
	}
	return true, nil
}

// FindMatchingComment returns the nth comment matching in, or nil.
func FindMatchingComment(in *FindCommentInput, comments []*Comment) (*Comment, error) {
	ordered := comments
	if in.Direction == "last" {
		ordered = make([]*Comment, len(comments))
		for i, c := range comments {
			ordered[len(comments)-1-i] = c
		}
	}
	n := 0
	for _, c := range ordered {
		ok, err := FindCommentPredicate(in, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if n == in.Nth {
			return c, nil
		}
		n++
	}
	return nil, nil
}

// FindComment searches all the comments of the issue.
func (c *Client) FindComment(ctx context.Context, owner, repo string, in *FindCommentInput) (*Comment, error) {
	comments, err := c.listComments(ctx, owner, repo, in.IssueNumber)
	if err != nil {
		return nil, err
	}
	found := make([]*Comment, 0, len(comments))
	for _, ic := range comments {
		found = append(found, toComment(ic))
	}
	return FindMatchingComment(in, found)
}

// UpsertComment keeps a single comment identified by key on the pull
// request: the body is prefixed with a hidden key marker, an existing comment
// holding the marker is edited, otherwise a new comment is created.
func (c *Client) UpsertComment(ctx context.Context, owner, repo string, prNumber int, key, body string) (*Comment, error) {
	if key == "" {
		return nil, errors.New("comment key cannot be empty")
	}
	marker := commentMarker(key)
	content := marker + "\n" + body

	comments, err := c.listComments(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	for _, existing := range comments {
		if !strings.Contains(existing.GetBody(), marker) {
			continue
		}
		log.Debugf("updating comment %d on %s/%s#%d", existing.GetID(), owner, repo, prNumber)
		updated, _, err := c.issues.EditComment(ctx, owner, repo, existing.GetID(), &github.IssueComment{Body: github.String(content)})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to update comment %d", existing.GetID())
		}
		return toComment(updated), nil
	}

	log.Debugf("creating comment on %s/%s#%d", owner, repo, prNumber)
	created, _, err := c.issues.CreateComment(ctx, owner, repo, prNumber, &github.IssueComment{Body: github.String(content)})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to comment on %s/%s#%d", owner, repo, prNumber)
	}
	return toComment(created), nil
}

func commentMarker(key string) string {
	return "<!-- " + key + " -->"
}

func (c *Client) listComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{Page: 1, PerPage: commentsPerPage},
	}
	for {
		comments, resp, err := c.issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to list comments of %s/%s#%d (page %d)", owner, repo, number, opts.Page)
		}
		all = append(all, comments...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		if resp.NextPage > maxCommentPages {
			log.Warnf("stopped listing comments of %s/%s#%d at page %d", owner, repo, number, opts.Page)
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func toComment(ic *github.IssueComment) *Comment {
	if ic == nil {
		return nil
	}
	c := &Comment{
		ID:     ic.GetID(),
		NodeID: ic.GetNodeID(),
		Body:   ic.GetBody(),
	}
	if ic.User != nil {
		c.User = ic.User.GetLogin()
	}
	if ic.CreatedAt != nil {
		c.CreatedAt = ic.GetCreatedAt().Format(time.RFC3339)
	}
	return c
}

// stringToRegex compiles a bare pattern, or a delimited one with trailing
// flags such as /pattern/i.
func stringToRegex(s string) (*regexp.Regexp, error) {
	pattern, flags, ok := splitDelimited(s)
	if !ok {
		pattern = s
	}
	prefix := ""
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			prefix += string(f)
		}
	}
	if prefix != "" {
		pattern = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid body regex %q", s)
	}
	return re, nil
}

// splitDelimited takes the first rune as delimiter and finds the shortest
// pattern followed by the delimiter and only flag characters.
func splitDelimited(s string) (pattern, flags string, ok bool) {
	r := []rune(s)
	if len(r) < 2 {
		return "", "", false
	}
	delim := r[0]
	for i := 1; i < len(r); i++ {
		if r[i] != delim {
			continue
		}
		rest := string(r[i+1:])
		if strings.Trim(rest, "gimsuy") == "" {
			return string(r[1:i]), rest, true
		}
	}
	return "", "", false
}
