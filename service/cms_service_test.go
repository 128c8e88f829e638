// api/service/cms_service_test.go
package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	os.Exit(m.Run())
}

func TestFetchJSON_UnconfiguredBaseURL(t *testing.T) {
	svc := service.NewCMSService("", 0)

	_, err := svc.FetchJSON(context.Background(), "/posts")
	assert.ErrorIs(t, err, api_errors.ErrCMSUnavailable)
}

func TestFetchJSON_ForwardsBodyVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hello":"world"}`))
	}))
	defer upstream.Close()

	svc := service.NewCMSService(upstream.URL, time.Second)
	body, err := svc.FetchJSON(context.Background(), "/posts")
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(body))
}

func TestFetchJSON_UpstreamErrorBecomesUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := service.NewCMSService(upstream.URL, time.Second)
	_, err := svc.FetchJSON(context.Background(), "/posts")
	assert.ErrorIs(t, err, api_errors.ErrCMSUnavailable)
}

func TestFetchPosts_BadPayloadBecomesUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer upstream.Close()

	svc := service.NewCMSService(upstream.URL, time.Second)
	_, err := svc.FetchPosts(context.Background())
	assert.ErrorIs(t, err, api_errors.ErrCMSUnavailable)
}

func TestBuildRSS(t *testing.T) {
	published := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	posts := []model.CMSPost{
		{
			ID:          "1",
			Title:       "Spring cleanup recap",
			Link:        "https://example.org/news/spring-cleanup",
			Description: "What we picked up",
			PublishedAt: &published,
		},
		{
			ID:          "2",
			Title:       "Volunteer spotlight",
			Link:        "https://example.org/news/spotlight",
			Description: "Meet the crew",
		},
	}

	out, err := service.BuildRSS("News", "https://example.org", "Site news", posts)
	require.NoError(t, err)
	feed := string(out)

	assert.True(t, strings.HasPrefix(feed, "<?xml"))
	assert.Contains(t, feed, `<rss version="2.0">`)
	assert.Equal(t, 2, strings.Count(feed, "<item>"))

	// The dated post carries an RFC1123Z pubDate; the undated one none at all.
	assert.Contains(t, feed, "<pubDate>"+published.Format(time.RFC1123Z)+"</pubDate>")
	assert.Equal(t, 1, strings.Count(feed, "<pubDate>"))

	// The guid is the permalink itself.
	assert.Contains(t, feed, `<guid isPermaLink="true">https://example.org/news/spring-cleanup</guid>`)
	assert.Contains(t, feed, `<guid isPermaLink="true">https://example.org/news/spotlight</guid>`)
}

func TestNewsFeedRSS(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","title":"Hello","link":"https://example.org/1","description":"d"}]`))
	}))
	defer upstream.Close()

	svc := service.NewCMSService(upstream.URL, time.Second)
	out, err := svc.NewsFeedRSS(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Hello</title>")
}
