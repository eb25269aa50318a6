package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// HTTPClient implements Client over the JSON CRUD API.
type HTTPClient struct {
	base string
	hc   *http.Client
}

// NewHTTPClient creates a client for the API at baseURL. Every call gets
// the given timeout; a timed-out call is reported as transient so the
// queued action is retried on the next drain pass.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) CreateReward(ctx context.Context, e domain.RewardEvent) error {
	return c.post(ctx, "create reward", "/v1/families/"+url.PathEscape(e.FamilyID)+"/rewards", e, nil)
}

func (c *HTTPClient) CreateLog(ctx context.Context, l domain.ActivityLog) error {
	return c.post(ctx, "create log", "/v1/families/"+url.PathEscape(l.FamilyID)+"/logs", l, nil)
}

func (c *HTTPClient) CreatePreparation(ctx context.Context, p domain.Preparation) error {
	return c.post(ctx, "create preparation", "/v1/preparations", p, nil)
}

func (c *HTTPClient) CreateConnection(ctx context.Context, conn domain.Connection) error {
	return c.post(ctx, "create connection", "/v1/connections", conn, nil)
}

func (c *HTTPClient) UpsertMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	var out domain.Member
	if err := c.post(ctx, "upsert member", "/v1/families/"+url.PathEscape(m.FamilyID)+"/members", m, &out); err != nil {
		return domain.Member{}, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateFamily(ctx context.Context, f domain.Family) (domain.Family, error) {
	var out domain.Family
	if err := c.post(ctx, "update family", "/v1/families/"+url.PathEscape(f.ID), f, &out); err != nil {
		return domain.Family{}, err
	}
	return out, nil
}

func (c *HTTPClient) FetchAll(ctx context.Context, familyID string) (*Bundle, error) {
	var out Bundle
	path := "/v1/snapshot"
	if familyID != "" {
		path = "/v1/families/" + url.PathEscape(familyID) + "/snapshot"
	}
	if err := c.get(ctx, "fetch all", path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchStreaks(ctx context.Context, familyID string) ([]domain.StreakRecord, error) {
	var out []domain.StreakRecord
	if err := c.get(ctx, "fetch streaks", "/v1/families/"+url.PathEscape(familyID)+"/streaks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) post(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: op, Message: err.Error(), Permanent: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: op, Message: err.Error(), Permanent: true}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(op, req, out)
}

func (c *HTTPClient) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &Error{Op: op, Message: err.Error(), Permanent: true}
	}
	return c.do(op, req, out)
}

func (c *HTTPClient) do(op string, req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		// Transport failure: offline, DNS, timeout. Always transient.
		return &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &Error{
			Op:        op,
			Status:    resp.StatusCode,
			Message:   string(msg),
			Permanent: statusPermanent(resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, Status: resp.StatusCode, Message: "decode response: " + err.Error(), Permanent: true}
		}
	}

	return nil
}
