// api/service/cms_service.go
package service

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

// ICMSService defines the interface for the upstream content service proxy
type ICMSService interface {
	FetchJSON(ctx context.Context, path string) ([]byte, error)
	FetchPosts(ctx context.Context) ([]model.CMSPost, error)
	NewsFeedRSS(ctx context.Context) ([]byte, error)
}

// CMSService forwards content requests to the upstream CMS verbatim. An
// empty base URL means the proxy is unconfigured and every call answers
// ErrCMSUnavailable.
type CMSService struct {
	baseURL string
	client  *http.Client
}

var _ ICMSService = &CMSService{}

func NewCMSService(baseURL string, timeout time.Duration) *CMSService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CMSService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *CMSService) FetchJSON(ctx context.Context, path string) ([]byte, error) {
	if s.baseURL == "" {
		return nil, api_errors.ErrCMSUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return nil, api_errors.ErrCMSUnavailable
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn("CMS request failed", zap.Error(err), zap.String("path", path))
		return nil, api_errors.ErrCMSUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("CMS returned non-success status", zap.Int("status", resp.StatusCode), zap.String("path", path))
		return nil, api_errors.ErrCMSUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, api_errors.ErrCMSUnavailable
	}
	return body, nil
}

func (s *CMSService) FetchPosts(ctx context.Context) ([]model.CMSPost, error) {
	body, err := s.FetchJSON(ctx, "/posts")
	if err != nil {
		return nil, err
	}

	var posts []model.CMSPost
	if err := json.Unmarshal(body, &posts); err != nil {
		logger.Warn("Failed to decode CMS posts", zap.Error(err))
		return nil, api_errors.ErrCMSUnavailable
	}
	return posts, nil
}

func (s *CMSService) NewsFeedRSS(ctx context.Context) ([]byte, error) {
	posts, err := s.FetchPosts(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRSS("TrashMob News", s.baseURL, "Community cleanup news and updates", posts)
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// BuildRSS synthesizes an RSS 2.0 document from CMS posts. Posts without a
// publish date carry no pubDate element; the guid is the permalink itself.
func BuildRSS(title, link, description string, posts []model.CMSPost) ([]byte, error) {
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       title,
			Link:        link,
			Description: description,
		},
	}

	for _, post := range posts {
		item := rssItem{
			Title:       post.Title,
			Link:        post.Link,
			Description: post.Description,
			GUID:        rssGUID{IsPermaLink: "true", Value: post.Link},
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
