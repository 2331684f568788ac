// Package mlbapi is a small client for the public MLB stats API, used to
// show a pitcher's bio next to their arsenal.
package mlbapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dwes123/pitch-arsenal-go/internal/metrics"
)

var ErrNotFound = errors.New("player not found")

const (
	cacheSize = 512
	cacheTTL  = 6 * time.Hour
)

type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

type Person struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName"`
	PrimaryNumber   string `json:"primaryNumber,omitempty"`
	BirthDate       string `json:"birthDate,omitempty"`
	CurrentAge      int    `json:"currentAge,omitempty"`
	BirthCity       string `json:"birthCity,omitempty"`
	BirthCountry    string `json:"birthCountry,omitempty"`
	Height          string `json:"height,omitempty"`
	Weight          int    `json:"weight,omitempty"`
	PitchHand       string `json:"pitchHand,omitempty"`
	BatSide         string `json:"batSide,omitempty"`
	PrimaryPosition string `json:"primaryPosition,omitempty"`
	CurrentTeam     *Team  `json:"currentTeam,omitempty"`
	MLBDebutDate    string `json:"mlbDebutDate,omitempty"`
	Active          bool   `json:"active"`
}

// peopleResp mirrors the parts of /api/v1/people we read.
type peopleResp struct {
	People []struct {
		ID            int    `json:"id"`
		FullName      string `json:"fullName"`
		PrimaryNumber string `json:"primaryNumber"`
		BirthDate     string `json:"birthDate"`
		CurrentAge    int    `json:"currentAge"`
		BirthCity     string `json:"birthCity"`
		BirthCountry  string `json:"birthCountry"`
		Height        string `json:"height"`
		Weight        int    `json:"weight"`
		Active        bool   `json:"active"`
		MLBDebutDate  string `json:"mlbDebutDate"`
		PitchHand     struct {
			Code string `json:"code"`
		} `json:"pitchHand"`
		BatSide struct {
			Code string `json:"code"`
		} `json:"batSide"`
		PrimaryPosition struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"primaryPosition"`
		CurrentTeam *struct {
			ID           int    `json:"id"`
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation"`
		} `json:"currentTeam"`
	} `json:"people"`
}

type Client struct {
	http  *resty.Client
	cache *expirable.LRU[int, *Person]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("Accept", "application/json")
	return &Client{
		http:  httpClient,
		cache: expirable.NewLRU[int, *Person](cacheSize, nil, cacheTTL),
	}
}

// Person returns the bio for an MLBAM id. Successful lookups are cached;
// misses and errors are not.
func (c *Client) Person(ctx context.Context, id int) (*Person, error) {
	if p, ok := c.cache.Get(id); ok {
		metrics.PlayerCache.WithLabelValues("hit").Inc()
		return p, nil
	}
	metrics.PlayerCache.WithLabelValues("miss").Inc()

	var body peopleResp
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetQueryParam("hydrate", "currentTeam").
		SetResult(&body).
		Get("/api/v1/people/{id}")
	if err != nil {
		metrics.PlayerUpstream.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("mlb api: %w", err)
	}
	// The API answers 404 for unknown ids and sometimes 200 with no people.
	if res.StatusCode() == http.StatusNotFound {
		metrics.PlayerUpstream.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	if res.IsError() {
		metrics.PlayerUpstream.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("mlb api: %s", res.Status())
	}
	if len(body.People) == 0 {
		metrics.PlayerUpstream.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	metrics.PlayerUpstream.WithLabelValues("ok").Inc()

	raw := body.People[0]
	p := &Person{
		ID:              raw.ID,
		FullName:        raw.FullName,
		PrimaryNumber:   raw.PrimaryNumber,
		BirthDate:       raw.BirthDate,
		CurrentAge:      raw.CurrentAge,
		BirthCity:       raw.BirthCity,
		BirthCountry:    raw.BirthCountry,
		Height:          raw.Height,
		Weight:          raw.Weight,
		PitchHand:       raw.PitchHand.Code,
		BatSide:         raw.BatSide.Code,
		PrimaryPosition: raw.PrimaryPosition.Abbreviation,
		MLBDebutDate:    raw.MLBDebutDate,
		Active:          raw.Active,
	}
	if raw.CurrentTeam != nil {
		p.CurrentTeam = &Team{ID: raw.CurrentTeam.ID, Name: raw.CurrentTeam.Name, Abbreviation: raw.CurrentTeam.Abbreviation}
	}
	c.cache.Add(id, p)
	return p, nil
}
