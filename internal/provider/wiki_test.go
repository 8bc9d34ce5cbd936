package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RogerDodger/gp-kitchen/internal/provider"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func httpClient(t *testing.T, resBody string, code int, wantPath string) *http.Client {
	t.Helper()
	return &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			require.Equal(t, wantPath, r.URL.Path)
			require.NotEmpty(t, r.Header.Get("User-Agent"))
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
			}
		}),
	}
}

const sampleLatest = `{
  "data": {
    "2": {"high": 163, "highTime": 1700000100, "low": 160, "lowTime": 1700000050},
    "561": {"high": 95, "highTime": 1700000000, "low": null, "lowTime": null}
  }
}`

const sampleVolumes = `{
  "timestamp": 1700000400,
  "data": {"2": 12500000, "561": 48000000}
}`

const sampleMapping = `[
  {"id": 2, "name": "Cannonball", "members": true, "limit": 11000, "examine": "Ammo for the Dwarf Cannon."},
  {"id": 561, "name": "Nature rune", "members": false, "limit": 18000, "examine": "Used for alchemy spells."}
]`

func TestLatest(t *testing.T) {
	p := &provider.WikiClient{
		BaseURL:   "https://prices.example.test/api/v1/osrs",
		UserAgent: "gp-kitchen test",
		Client:    httpClient(t, sampleLatest, 200, "/api/v1/osrs/latest"),
	}

	latest, err := p.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 2)

	cannonball := latest[2]
	require.NotNil(t, cannonball.High)
	require.EqualValues(t, 163, *cannonball.High)
	require.NotNil(t, cannonball.Low)
	require.EqualValues(t, 160, *cannonball.Low)
	require.Equal(t, time.Unix(1700000100, 0).UTC(), *cannonball.HighTime)

	nature := latest[561]
	require.NotNil(t, nature.High)
	require.Nil(t, nature.Low)
	require.Nil(t, nature.LowTime)
}

func TestVolumes(t *testing.T) {
	p := &provider.WikiClient{
		BaseURL:   "https://prices.example.test/api/v1/osrs",
		UserAgent: "gp-kitchen test",
		Client:    httpClient(t, sampleVolumes, 200, "/api/v1/osrs/volumes"),
	}

	volumes, err := p.Volumes(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 12500000, volumes[2])
	require.EqualValues(t, 48000000, volumes[561])
}

func TestMapping(t *testing.T) {
	p := &provider.WikiClient{
		BaseURL:   "https://prices.example.test/api/v1/osrs",
		UserAgent: "gp-kitchen test",
		Client:    httpClient(t, sampleMapping, 200, "/api/v1/osrs/mapping"),
	}

	items, err := p.Mapping(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, items[0].ID)
	require.Equal(t, "Cannonball", items[0].Name)
	require.True(t, items[0].Members)
	require.Equal(t, 11000, items[0].BuyLimit)
	require.Equal(t, "Nature rune", items[1].Name)
}

func TestLatestUpstreamError(t *testing.T) {
	p := &provider.WikiClient{
		BaseURL:   "https://prices.example.test/api/v1/osrs",
		UserAgent: "gp-kitchen test",
		Client:    httpClient(t, `{"error":"rate limited"}`, 429, "/api/v1/osrs/latest"),
	}

	_, err := p.Latest(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestLatestMissingBaseURL(t *testing.T) {
	p := &provider.WikiClient{}
	_, err := p.Latest(context.Background())
	require.Error(t, err)
}
