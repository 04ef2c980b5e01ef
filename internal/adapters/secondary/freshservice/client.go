package freshservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

const (
	defaultPageSize = 100
	defaultMaxPages = 50
)

// Config holds the FreshService API client configuration.
type Config struct {
	// BaseURL is the instance root, e.g. https://example.freshservice.com
	BaseURL string
	// APIKey is sent as the basic-auth username; FreshService ignores the
	// password and expects a literal "X".
	APIKey string
	// PageSize per request; defaults to 100.
	PageSize int
	// MaxPages caps pagination as a safety limit; defaults to 50.
	MaxPages int

	HTTPClient *http.Client
}

// Client fetches ticket records from the FreshService v2 API. Page-level
// failures never surface to callers: pagination stops and the accumulated
// records are returned, logged as a degraded fetch. That keeps a flaky source
// API from blanking the whole report.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxPages   int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.TicketSource = (*Client)(nil)

// NewClient creates a FreshService API client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		maxPages:   maxPages,
		httpClient: httpClient,
		logger:     logger.With("component", "freshservice_client"),
	}
}

// FetchUpdatedSince retrieves every ticket updated at or after the cutoff,
// walking page-number pagination until an empty page, a short page, or the
// page cap. Cancelling ctx aborts further pages and returns what was
// accumulated, consistent with the partial-tolerant fetch policy.
func (c *Client) FetchUpdatedSince(ctx context.Context, since time.Time) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, c.pageSize)

	for page := 1; page <= c.maxPages; page++ {
		if ctx.Err() != nil {
			c.logger.WarnContext(ctx, "ticket fetch cancelled, returning partial result",
				"pages_fetched", page-1, "tickets", len(tickets))
			return tickets, nil
		}

		pageTickets, err := c.fetchPage(ctx, since, page)
		if err != nil {
			c.logger.WarnContext(ctx, "ticket fetch degraded, using partial result",
				"page", page, "tickets", len(tickets), "error", err)
			return tickets, nil
		}

		for _, raw := range pageTickets {
			tickets = append(tickets, raw.toDomain())
		}

		if len(pageTickets) == 0 || len(pageTickets) < c.pageSize {
			return tickets, nil
		}

		if page == c.maxPages {
			c.logger.WarnContext(ctx, "reached page safety limit",
				"max_pages", c.maxPages, "tickets", len(tickets))
		}
	}

	return tickets, nil
}

func (c *Client) fetchPage(ctx context.Context, since time.Time, page int) ([]apiTicket, error) {
	endpoint := fmt.Sprintf("%s/api/v2/tickets", c.baseURL)

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))
	query.Set("updated_since", since.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, "X")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return decodeTickets(body)
}

// decodeTickets accepts both the wrapped form {"tickets": [...]} and a bare
// array; the API has served both shapes.
func decodeTickets(body []byte) ([]apiTicket, error) {
	var wrapped struct {
		Tickets []apiTicket `json:"tickets"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Tickets != nil {
		return wrapped.Tickets, nil
	}

	var bare []apiTicket
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("decoding ticket response: %w", err)
	}
	return bare, nil
}

// apiTicket mirrors the wire fields this system reads from a ticket record.
type apiTicket struct {
	ID           int64      `json:"id"`
	Type         string     `json:"type"`
	Status       int        `json:"status"`
	DepartmentID *int64     `json:"department_id"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	Subject      string     `json:"subject"`
}

func (t apiTicket) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:        t.ID,
		Kind:      domain.ParseTicketKind(t.Type),
		Status:    domain.TicketStatus(t.Status),
		UnitID:    t.DepartmentID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Subject:   t.Subject,
	}
}
