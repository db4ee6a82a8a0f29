// Package ao3 scrapes work metadata from the Archive of Our Own and maps it
// onto catalog fics.
package ao3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/theLastOfCats/ficbox/internal/model"
)

const (
	DefaultBaseURL      = "https://archiveofourown.org"
	DefaultRequestDelay = 5 * time.Second
	DemoWorkID          = 64163587
	userAgent           = "ficbox-etl/1.0"
)

// DefaultRelationship is the tag the weekly update searches.
const DefaultRelationship = "Caitlyn/Vi (League of Legends)"

var ErrNotFound = errors.New("work not found")

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient paces every request to at most one per delay.
func NewClient(baseURL string, delay time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		now:     time.Now,
	}
}

// get issues a single request; callers wait on the limiter first.
func (c *Client) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *Client) WorkURL(workID int64) string {
	return fmt.Sprintf("%s/works/%d", c.baseURL, workID)
}

func (c *Client) FetchWork(ctx context.Context, workID int64) (*model.Fic, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.fetchWork(ctx, workID)
}

func (c *Client) fetchWork(ctx context.Context, workID int64) (*model.Fic, error) {
	if workID <= 0 {
		return nil, fmt.Errorf("invalid work id %d", workID)
	}

	doc, err := c.get(ctx, c.WorkURL(workID)+"?view_adult=true")
	if err != nil {
		return nil, fmt.Errorf("fetching work %d: %w", workID, err)
	}

	fic, err := parseWork(doc, workID, c.WorkURL(workID))
	if err != nil {
		return nil, fmt.Errorf("parsing work %d: %w", workID, err)
	}
	return fic, nil
}

// FetchBatch fetches works one at a time at the client's pace. Works that
// fail are logged and left out.
func (c *Client) FetchBatch(ctx context.Context, workIDs []int64) ([]model.Fic, error) {
	results := make([]model.Fic, 0, len(workIDs))
	for i, id := range workIDs {
		c.logger.Info("fetching work", "work_id", id, "n", i+1, "total", len(workIDs))

		if err := c.limiter.Wait(ctx); err != nil {
			return results, err
		}
		fic, err := c.fetchWork(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			c.logger.Warn("skipping work", "work_id", id, "error", err)
			continue
		}
		results = append(results, *fic)
	}
	return results, nil
}

// SearchRecent lists ids of works tagged with relationship that were
// published within the last days days and have at least minKudos kudos.
func (c *Client) SearchRecent(ctx context.Context, relationship string, days, minKudos int) ([]int64, error) {
	q := url.Values{}
	q.Set("work_search[relationship_names]", relationship)
	q.Set("work_search[revised_at]", fmt.Sprintf("< %d days", days))
	q.Set("work_search[sort_column]", "created_at")
	if minKudos > 0 {
		q.Set("work_search[kudos_count]", fmt.Sprintf(">%d", minKudos-1))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := c.get(ctx, c.baseURL+"/works/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	since := c.now().AddDate(0, 0, -days)
	return parseSearch(doc, since), nil
}

func parseWork(doc *goquery.Document, workID int64, link string) (*model.Fic, error) {
	title := strings.TrimSpace(doc.Find("h2.title").First().Text())
	if title == "" {
		return nil, errors.New("no title on page")
	}

	author := strings.TrimSpace(doc.Find(`h3.byline a[rel="author"]`).First().Text())
	if author == "" {
		author = "Anonymous"
	}

	summaryHTML, _ := doc.Find("div.summary blockquote.userstuff").First().Html()

	tags := make([]string, 0)
	for _, class := range []string{"fandom", "character", "relationship", "freeform"} {
		tags = append(tags, tagTexts(doc, "dd."+class+".tags a.tag")...)
	}

	stats := doc.Find("dl.stats")
	chapters, expected := parseChapters(stats.Find("dd.chapters").Text())
	status := "Work in Progress"
	if expected > 0 && chapters == expected {
		status = "Completed"
	}

	fic := &model.Fic{
		ID:           FicID(workID),
		Title:        title,
		Author:       author,
		Summary:      CleanSummary(summaryHTML),
		Rating:       MapRating(doc.Find("dd.rating.tags a.tag").First().Text()),
		Category:     MapCategory(tagTexts(doc, "dd.category.tags a.tag")),
		Status:       MapStatus(status),
		IsTranslated: IsTranslated(tags),
		Tags:         tags,
		State:        model.FicState{Spice: 1, Angst: 1, Fluff: 1},
		Stats: model.FicStats{
			Words:     parseCount(stats.Find("dd.words").Text()),
			Chapters:  max(chapters, 1),
			Kudos:     parseCount(stats.Find("dd.kudos").Text()),
			Hits:      parseCount(stats.Find("dd.hits").Text()),
			Comments:  parseCount(stats.Find("dd.comments").Text()),
			Bookmarks: parseCount(stats.Find("dd.bookmarks").Text()),
		},
		AuthorStats: model.AuthorStats{Spice: 1, Angst: 1, Fluff: 1, Plot: 1, Romance: 1},
		OriginLink:  link,
	}
	return fic, nil
}

func parseSearch(doc *goquery.Document, since time.Time) []int64 {
	var ids []int64
	doc.Find("li.work.blurb").Each(func(_ int, s *goquery.Selection) {
		rawID, _ := s.Attr("id")
		id, err := strconv.ParseInt(strings.TrimPrefix(rawID, "work_"), 10, 64)
		if err != nil {
			return
		}
		if published, err := time.Parse("02 Jan 2006", strings.TrimSpace(s.Find("p.datetime").Text())); err == nil {
			if published.Before(since.Truncate(24 * time.Hour)) {
				return
			}
		}
		ids = append(ids, id)
	})
	return ids
}

func tagTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// parseCount reads AO3 numbers such as "45,123"; blanks are zero.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseChapters splits "3/10" or "3/?"; an unknown total is returned as 0.
func parseChapters(s string) (posted, total int) {
	left, right, _ := strings.Cut(strings.TrimSpace(s), "/")
	return parseCount(left), parseCount(right)
}
