package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/observability"
	"github.com/yungbote/promptlib-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

// Client resolves user ids to author display records in one batched call. Unknown ids are
// absent from the result.
type Client interface {
	Resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error)
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type httpClient struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing identity base url")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &httpClient{
		log:  log.With("client", "IdentityClient"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type userRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *httpClient) Resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error) {
	ids = distinctIDs(ids)
	out := make(map[int64]types.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	start := time.Now()
	users, err := c.listUsers(ctx, ids)
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveIdentityLookup("http", status, time.Since(start))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = types.Author{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out, nil
}

func (c *httpClient) listUsers(ctx context.Context, ids []int64) ([]userRecord, error) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	q := url.Values{}
	q.Set("ids", strings.Join(parts, ","))
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/users?" + q.Encode()

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if tok := strings.TrimSpace(c.cfg.Token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity list_users: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity list_users http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var users []userRecord
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("identity list_users decode: %w", err)
	}
	c.log.Debug("resolved users", "requested", len(ids), "returned", len(users))
	return users, nil
}

// Static answers from a fixed table. It backs deployments without an identity service, where
// every author renders by id alone.
type Static map[int64]types.Author

func (s Static) Resolve(_ context.Context, ids []int64) (map[int64]types.Author, error) {
	out := make(map[int64]types.Author, len(ids))
	for _, id := range ids {
		if a, ok := s[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
