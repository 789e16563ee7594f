package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ErrNoForm is returned when the target page has no usable form.
var ErrNoForm = errors.New("no form found on page")

// Submission is the identity and content posted into a web form.
type Submission struct {
	Subject   string
	Message   string
	FromEmail string
	FromName  string
}

// htmlForm is a parsed <form> element: its target, method and fields.
type htmlForm struct {
	action string
	method string
	fields url.Values
}

// FormSubmitter fills and posts contact/submission forms over HTTP.
// Field mapping is heuristic: input names are matched against common
// subject/message/email/name spellings; unmatched hidden inputs keep
// their server-provided defaults (CSRF tokens and the like).
type FormSubmitter struct {
	client *http.Client
}

// NewFormSubmitter creates a submitter with the given request timeout.
func NewFormSubmitter(timeout time.Duration) *FormSubmitter {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &FormSubmitter{
		client: &http.Client{Timeout: timeout},
	}
}

// Submit fetches the form page, fills the first form found and posts
// it. ErrNoForm means the page had nothing to fill; other errors are
// transport or server failures.
func (f *FormSubmitter) Submit(ctx context.Context, formURL string, sub Submission) error {
	req, err := http.NewRequestWithContext(ctx, "GET", formURL, nil)
	if err != nil {
		return fmt.Errorf("invalid form url %q: %w", formURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch form page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("form page returned status %d", resp.StatusCode)
	}

	form, err := parseFirstForm(resp)
	if err != nil {
		return err
	}

	fillForm(form, sub)

	target, err := resolveAction(formURL, form.action)
	if err != nil {
		return err
	}

	postReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(form.method), target,
		strings.NewReader(form.fields.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build form post: %w", err)
	}
	postReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	postResp, err := f.client.Do(postReq)
	if err != nil {
		return fmt.Errorf("form submission failed: %w", err)
	}
	defer postResp.Body.Close()

	if postResp.StatusCode >= 400 {
		return fmt.Errorf("form submission rejected with status %d", postResp.StatusCode)
	}
	return nil
}

// parseFirstForm walks the page and extracts the first form element
// with its input and textarea fields.
func parseFirstForm(resp *http.Response) (*htmlForm, error) {
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form page: %w", err)
	}

	node := findNode(doc, "form")
	if node == nil {
		return nil, ErrNoForm
	}

	form := &htmlForm{
		action: attr(node, "action"),
		method: attr(node, "method"),
		fields: url.Values{},
	}
	if form.method == "" {
		form.method = "post"
	}

	collectFields(node, form)
	return form, nil
}

// collectFields records input and textarea names with their default
// values.
func collectFields(n *html.Node, form *htmlForm) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "input":
			name := attr(n, "name")
			if name != "" && attr(n, "type") != "submit" {
				form.fields.Set(name, attr(n, "value"))
			}
		case "textarea":
			if name := attr(n, "name"); name != "" {
				form.fields.Set(name, "")
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectFields(c, form)
	}
}

// fieldHints maps submission content to common form field spellings.
var fieldHints = []struct {
	keys  []string
	value func(Submission) string
}{
	{[]string{"email", "e-mail", "mail"}, func(s Submission) string { return s.FromEmail }},
	{[]string{"subject", "title", "topic"}, func(s Submission) string { return s.Subject }},
	{[]string{"message", "content", "body", "comment", "description"}, func(s Submission) string { return s.Message }},
	{[]string{"name"}, func(s Submission) string { return s.FromName }},
}

// fillForm writes the submission into recognizably named fields.
// Hint order matters: "name" is checked last so "username" or
// "sender_email_name" style fields resolve to the more specific hint
// first.
func fillForm(form *htmlForm, sub Submission) {
	for field := range form.fields {
		lower := strings.ToLower(field)
		for _, hint := range fieldHints {
			matched := false
			for _, key := range hint.keys {
				if strings.Contains(lower, key) {
					form.fields.Set(field, hint.value(sub))
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
}

func resolveAction(pageURL, action string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}
	if action == "" {
		return base.String(), nil
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("invalid form action %q: %w", action, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func findNode(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, name); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
