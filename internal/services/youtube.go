// YouTube Data API v3 [Catalog] implementation
//
// Authenticates with a static API key. Playlist listing and tag lookups are both capped at 50 results per request.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// PageSize is the number of playlist items requested per listing call.
	PageSize = 50
	// ChunkSize is the maximum number of IDs sent in one videos lookup.
	ChunkSize = 50
)

// YouTubeOpts configures a [YouTubeService].
type YouTubeOpts struct {
	APIKey            string
	Endpoint          string            // Overrides the API base URL, e.g. for test servers
	Transport         http.RoundTripper // Base transport under the API key; defaults to http.DefaultTransport
	RequestsPerSecond float64           // Paces API calls when positive
}

// YouTubeService implements the [Catalog] interface on the YouTube Data API.
type YouTubeService struct {
	svc     *youtube.Service
	limiter *rate.Limiter
}

// NewYouTubeService creates a YouTube Data API client authenticated with opts.APIKey.
func NewYouTubeService(ctx context.Context, opts YouTubeOpts) (*YouTubeService, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: youtube api key is required", shared.ErrMissingCredentials)
	}

	client := &http.Client{Transport: &transport.APIKey{Key: opts.APIKey, Transport: opts.Transport}}
	clientOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	y := &YouTubeService{svc: svc}
	if opts.RequestsPerSecond > 0 {
		y.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return y, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) wait(ctx context.Context) error {
	if y.limiter == nil {
		return nil
	}
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// ListPlaylistItems pages through playlistItems.list until a response carries no next page token.
func (y *YouTubeService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.ItemRef, error) {
	var (
		refs      []models.ItemRef
		pageToken string
	)

	for {
		if err := y.wait(ctx); err != nil {
			return nil, err
		}

		call := y.svc.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(PageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, wrapAPIError("playlistItems.list", err, shared.ErrPlaylistNotFound)
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
				continue
			}
			refs = append(refs, models.ItemRef{ID: item.Snippet.ResourceId.VideoId, Title: item.Snippet.Title})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return refs, nil
		}
	}
}

// GetItemTags issues one videos.list call per chunk of at most [ChunkSize] IDs.
func (y *YouTubeService) GetItemTags(ctx context.Context, ids []string) (map[string][]string, error) {
	tags := make(map[string][]string)

	for _, chunk := range Chunk(ids, ChunkSize) {
		if err := y.wait(ctx); err != nil {
			return nil, err
		}

		resp, err := y.svc.Videos.List([]string{"snippet"}).Id(chunk...).Context(ctx).Do()
		if err != nil {
			return nil, wrapAPIError("videos.list", err, nil)
		}

		for _, video := range resp.Items {
			if video.Snippet == nil || len(video.Snippet.Tags) == 0 {
				continue
			}
			tags[video.Id] = append([]string{}, video.Snippet.Tags...)
		}
	}

	return tags, nil
}

var credentialReasons = map[string]bool{
	"keyInvalid":          true,
	"keyExpired":          true,
	"accessNotConfigured": true,
	"ipRefererBlocked":    true,
	"forbidden":           true,
}

// wrapAPIError maps client errors onto the shared sentinels. Every result wraps [shared.ErrAPIRequest].
// A 404 additionally wraps notFound when the caller supplies one.
func wrapAPIError(op string, err error, notFound error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}

	switch {
	case gerr.Code == http.StatusNotFound && notFound != nil:
		return fmt.Errorf("%w: %w: %s: %s", shared.ErrAPIRequest, notFound, op, gerr.Message)
	case (gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusForbidden) && isCredentialError(gerr):
		return fmt.Errorf("%w: %w: %s: %s", shared.ErrAPIRequest, shared.ErrInvalidCredentials, op, gerr.Message)
	case gerr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w: %s (status %d): %s", shared.ErrAPIRequest, shared.ErrServiceUnavailable, op, gerr.Code, gerr.Message)
	default:
		return fmt.Errorf("%w: %s (status %d): %s", shared.ErrAPIRequest, op, gerr.Code, gerr.Message)
	}
}

func isCredentialError(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if credentialReasons[item.Reason] {
			return true
		}
	}
	return strings.Contains(strings.ToLower(gerr.Message), "api key")
}
