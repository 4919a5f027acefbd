package rwgps

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

const DefaultBaseURL = "https://ridewithgps.com"

type ErrNotFound struct {
	RouteId int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("RideWithGPS track %d not found", e.RouteId)
}

type ErrNotPublic struct {
	RouteId int
}

func (e *ErrNotPublic) Error() string {
	return fmt.Sprintf("RideWithGPS track %d is not public", e.RouteId)
}

// Client downloads routes from RideWithGPS.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var DefaultClient = &Client{BaseURL: DefaultBaseURL, HTTPClient: http.DefaultClient}

// FetchTrack downloads route routeId as a GPX track using DefaultClient.
func FetchTrack(ctx context.Context, routeId int) ([]byte, error) {
	return DefaultClient.FetchTrack(ctx, routeId)
}

func (c *Client) FetchTrack(ctx context.Context, routeId int) ([]byte, error) {
	url := fmt.Sprintf("%s/routes/%d.gpx?sub_format=track", c.BaseURL, routeId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request for %s: %v", url, err)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting %s: %w", url, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &ErrNotFound{routeId}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ErrNotPublic{routeId}
	default:
		return nil, fmt.Errorf("error getting %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %v", url, err)
	}
	if IsNotFound(data) {
		return nil, &ErrNotFound{routeId}
	}
	return data, nil
}

// IsNotFound reports whether data is the HTML error page served in place of
// a missing route.
func IsNotFound(data []byte) bool {
	return bytes.HasPrefix(data, []byte("<!DOCTYPE html>")) && bytes.Contains(data, []byte("Error (404 not found)"))
}
