package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		AccessToken: "test-token",
		AccountID:   "12345",
		BaseURL:     server.URL,
	})
}

func TestDiscoverMoviesRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"page":          1,
			"results":       []map[string]any{{"id": 1, "title": "Dune"}},
			"total_pages":   10,
			"total_results": 200,
		})
	})

	list, err := client.DiscoverMovies(context.Background(), DiscoverOptions{
		Page:            2,
		ReleaseDateGTE:  "2024-03-16",
		ReleaseDateLTE:  "2024-05-15",
		WithReleaseType: "2|3",
	})

	require.NoError(t, err)
	assert.Equal(t, "/discover/movie", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"en-US"}, gotQuery["language"])
	assert.Equal(t, []string{"false"}, gotQuery["include_adult"])
	assert.Equal(t, []string{"false"}, gotQuery["include_video"])
	assert.Equal(t, []string{"popularity.desc"}, gotQuery["sort_by"])
	assert.Equal(t, []string{"2024-03-16"}, gotQuery["release_date.gte"])
	assert.Equal(t, []string{"2024-05-15"}, gotQuery["release_date.lte"])
	assert.Equal(t, []string{"2|3"}, gotQuery["with_release_type"])
	assert.Equal(t, 10, list.TotalPages)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Dune", list.Results[0].Title)
}

func TestDiscoverMoviesOmitsEmptyFilters(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"page": 1, "results": []any{}})
	})

	_, err := client.DiscoverMovies(context.Background(), DiscoverOptions{})

	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "release_date.gte")
	assert.NotContains(t, gotQuery, "release_date.lte")
	assert.NotContains(t, gotQuery, "with_release_type")
	assert.Equal(t, []string{"1"}, gotQuery["page"])
}

func TestSearchMoviesRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"page":    1,
			"results": []map[string]any{{"id": 2, "title": "Casino", "release_date": "1995-11-22"}},
		})
	})

	list, err := client.SearchMovies(context.Background(), "casino royale", 0)

	require.NoError(t, err)
	assert.Equal(t, "/search/movie", gotPath)
	assert.Equal(t, []string{"casino royale"}, gotQuery["query"])
	assert.Equal(t, []string{"1"}, gotQuery["page"], "page below 1 defaults to 1")
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Casino", list.Results[0].Title)
}

func TestGetMovieDetailsAppendsCredits(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"id":      603,
			"title":   "The Matrix",
			"runtime": 136,
			"status":  "Released",
			"genres":  []map[string]any{{"id": 28, "name": "Action"}},
			"credits": map[string]any{
				"cast": []map[string]any{{"id": 6384, "name": "Keanu Reeves", "character": "Neo", "order": 0}},
				"crew": []map[string]any{{"id": 905, "name": "Lana Wachowski", "job": "Director", "department": "Directing"}},
			},
		})
	})

	detail, err := client.GetMovieDetails(context.Background(), 603)

	require.NoError(t, err)
	assert.Equal(t, "/movie/603", gotPath)
	assert.Equal(t, []string{"credits"}, gotQuery["append_to_response"])
	assert.Equal(t, 136, detail.Runtime)
	require.NotNil(t, detail.Credits)
	require.Len(t, detail.Credits.Cast, 1)
	assert.Equal(t, "Neo", detail.Credits.Cast[0].Character)
	require.Len(t, detail.Credits.Crew, 1)
	assert.Equal(t, "Director", detail.Credits.Crew[0].Job)
}

func TestGetMovieDetailsWithoutCredits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 603, "title": "The Matrix"})
	})

	detail, err := client.GetMovieDetails(context.Background(), 603)

	require.NoError(t, err)
	assert.Nil(t, detail.Credits, "missing credits sub-resource is not an error")
}

func TestSetWatchlistRequest(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "status_code": 1, "status_message": "Success."})
	})

	result, err := client.SetWatchlist(context.Background(), 27205, true)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/account/12345/watchlist", gotPath)
	assert.Equal(t, "movie", gotBody["media_type"])
	assert.Equal(t, float64(27205), gotBody["media_id"])
	assert.Equal(t, true, gotBody["watchlist"])
	assert.True(t, result.Success)
}

func TestGetWatchlistMoviesRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"page":    1,
			"results": []map[string]any{{"id": 27205, "title": "Inception"}},
		})
	})

	list, err := client.GetWatchlistMovies(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "/account/12345/watchlist/movies", gotPath)
	assert.Equal(t, []string{"created_at.desc"}, gotQuery["sort_by"])
	require.Len(t, list.Results, 1)
}

func TestGetAccountRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/12345", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       12345,
			"name":     "Jane Doe",
			"username": "janedoe",
			"avatar": map[string]any{
				"gravatar": map[string]any{"hash": "abc123"},
				"tmdb":     map[string]any{"avatar_path": nil},
			},
		})
	})

	account, err := client.GetAccount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12345, account.ID)
	assert.Equal(t, "abc123", account.Avatar.Gravatar.Hash)
	assert.Nil(t, account.Avatar.TMDB.AvatarPath)
}

func TestAPIErrorIncludesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	_, err := client.DiscoverMovies(context.Background(), DiscoverOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}
