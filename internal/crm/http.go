package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kommo_pulse/backend/internal/models"
)

// HTTPClient talks to a Kommo-style CRM API: bearer-token auth, _embedded
// collections, cursor-link pagination on leads and messages, page-number
// pagination on talks.
type HTTPClient struct {
	BaseURL     string
	AccessToken string
	PageLimit   int
	Client      *http.Client
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 30 * time.Second}
	}
	return c.Client
}

func (c *HTTPClient) pageLimit() int {
	if c.PageLimit <= 0 {
		return 250
	}
	return c.PageLimit
}

func (c *HTTPClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("crm: %s returned %d: %s", req.URL.Path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type nextLink struct {
	Href string `json:"href"`
}

type pageLinks struct {
	Next *nextLink `json:"next"`
}

type usersPage struct {
	Embedded struct {
		Users []models.User `json:"users"`
	} `json:"_embedded"`
}

type leadsPage struct {
	Embedded struct {
		Leads []models.Lead `json:"leads"`
	} `json:"_embedded"`
	Links pageLinks `json:"_links"`
}

type talksPage struct {
	Embedded struct {
		Talks []models.Talk `json:"talks"`
	} `json:"_embedded"`
}

type messagesPage struct {
	Embedded struct {
		Messages []models.Message `json:"messages"`
	} `json:"_embedded"`
	Links pageLinks `json:"_links"`
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var page usersPage
	if err := c.get(ctx, c.BaseURL+"/users", &page); err != nil {
		return nil, err
	}
	return page.Embedded.Users, nil
}

// ListLeads follows the API's opaque next-page links, re-parsing query
// parameters out of each link rather than incrementing anything manually.
// The page limit is pinned across hops.
func (c *HTTPClient) ListLeads(ctx context.Context, from, to time.Time, max int) ([]models.Lead, error) {
	limit := c.pageLimit()
	next := c.BaseURL + "/leads?" + rangeQuery(limit, from, to).Encode()

	var all []models.Lead
	for next != "" {
		if max > 0 && len(all) >= max {
			break
		}
		var page leadsPage
		if err := c.get(ctx, next, &page); err != nil {
			return all, err
		}
		if len(page.Embedded.Leads) == 0 {
			break
		}
		all = appendCapped(all, page.Embedded.Leads, max)

		next = ""
		if page.Links.Next != nil {
			u, err := c.resolveLink(page.Links.Next.Href)
			if err != nil {
				return all, err
			}
			q := u.Query()
			q.Set("limit", strconv.Itoa(limit))
			u.RawQuery = q.Encode()
			next = u.String()
		}
	}
	return all, nil
}

// ListMessages paginates like ListLeads but takes every parameter of the
// next link as-is, the way the API hands them back.
func (c *HTTPClient) ListMessages(ctx context.Context, from, to time.Time, max int) ([]models.Message, error) {
	next := c.BaseURL + "/messages?" + rangeQuery(c.pageLimit(), from, to).Encode()

	var all []models.Message
	for next != "" {
		if max > 0 && len(all) >= max {
			break
		}
		var page messagesPage
		if err := c.get(ctx, next, &page); err != nil {
			return all, err
		}
		if len(page.Embedded.Messages) == 0 {
			break
		}
		all = appendCapped(all, page.Embedded.Messages, max)

		next = ""
		if page.Links.Next != nil {
			u, err := c.resolveLink(page.Links.Next.Href)
			if err != nil {
				return all, err
			}
			next = u.String()
		}
	}
	return all, nil
}

// ListTalks uses explicit page numbers; a short page means the last one.
func (c *HTTPClient) ListTalks(ctx context.Context, from, to time.Time, max int) ([]models.Talk, error) {
	limit := c.pageLimit()

	var all []models.Talk
	for page := 1; ; page++ {
		if max > 0 && len(all) >= max {
			break
		}
		q := rangeQuery(limit, from, to)
		q.Set("page", strconv.Itoa(page))

		var body talksPage
		if err := c.get(ctx, c.BaseURL+"/talks?"+q.Encode(), &body); err != nil {
			return all, err
		}
		got := body.Embedded.Talks
		if len(got) == 0 {
			break
		}
		all = appendCapped(all, got, max)
		if len(got) < limit {
			break
		}
	}
	return all, nil
}

func (c *HTTPClient) GetLead(ctx context.Context, id int64) (*models.Lead, error) {
	var lead models.Lead
	if err := c.get(ctx, fmt.Sprintf("%s/leads/%d", c.BaseURL, id), &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *HTTPClient) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	if err := c.get(ctx, fmt.Sprintf("%s/contacts/%d", c.BaseURL, id), &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *HTTPClient) GetTalk(ctx context.Context, id int64) (*models.Talk, error) {
	var talk models.Talk
	if err := c.get(ctx, fmt.Sprintf("%s/talks/%d", c.BaseURL, id), &talk); err != nil {
		return nil, err
	}
	return &talk, nil
}

// resolveLink handles both absolute next links and path-only ones.
func (c *HTTPClient) resolveLink(href string) (*url.URL, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	if u.Host != "" {
		return u, nil
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(u), nil
}

func rangeQuery(limit int, from, to time.Time) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("filter[created_at][from]", strconv.FormatInt(from.Unix(), 10))
	q.Set("filter[created_at][to]", strconv.FormatInt(to.Unix(), 10))
	return q
}

func appendCapped[T any](all, page []T, max int) []T {
	if max > 0 && len(all)+len(page) > max {
		page = page[:max-len(all)]
	}
	return append(all, page...)
}
