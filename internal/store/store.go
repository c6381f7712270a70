package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/misterbo271/movie-database-app-mienpv/internal/models"
	"github.com/misterbo271/movie-database-app-mienpv/internal/tmdb"
)

const dateLayout = "2006-01-02"

// theatrical (2) and digital (3) releases
const releaseTypeTheatricalDigital = "2|3"

// Client is the remote catalog API surface the store depends on.
// *tmdb.Client satisfies it; tests substitute a mock.
type Client interface {
	DiscoverMovies(ctx context.Context, opts tmdb.DiscoverOptions) (*models.MovieList, error)
	SearchMovies(ctx context.Context, query string, page int) (*models.MovieList, error)
	GetMovieDetails(ctx context.Context, movieID int) (*models.MovieDetail, error)
	GetWatchlistMovies(ctx context.Context, page int) (*models.MovieList, error)
	SetWatchlist(ctx context.Context, mediaID int, watchlisted bool) (*models.WatchlistResult, error)
	GetAccount(ctx context.Context) (*models.Account, error)
}

// CategoryState is a snapshot of one category's listing state
type CategoryState struct {
	Items       []models.Movie
	Loading     bool
	Err         string
	CurrentPage int
	TotalPages  int
}

// Store holds the in-memory catalog state for one app session: the
// per-category listings, the currently viewed movie detail, the account
// watchlist and the account profile. It is constructed once and shared;
// callers observe changes through Subscribe rather than polling.
//
// Remote failures never surface as returned errors; they are recorded as
// human-readable strings on the relevant state slot (per-category Err,
// DetailError, WatchlistError, AccountError).
type Store struct {
	client    Client
	imageBase string
	now       func() time.Time

	mu         sync.RWMutex
	categories map[Category]*CategoryState

	detail        *models.MovieDetail
	detailLoading bool
	detailErr     string

	watchlist        []models.Movie
	watchlistIDs     map[int]struct{}
	watchlistLoading bool
	watchlistErr     string

	account        *models.Account
	accountLoading bool
	accountErr     string

	subs map[uuid.UUID]func()
}

// Options configures a Store
type Options struct {
	Client       Client
	ImageBaseURL string
	// Now supplies the wall clock used for the date-windowed listings.
	// Defaults to time.Now; tests inject a fixed date.
	Now func() time.Time
}

// New creates an empty store. One store instance serves the whole app
// session; there is no package-level singleton.
func New(opts Options) *Store {
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = "https://image.tmdb.org/t/p"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	categories := make(map[Category]*CategoryState, len(Categories))
	for _, c := range Categories {
		categories[c] = &CategoryState{CurrentPage: 1}
	}

	return &Store{
		client:       opts.Client,
		imageBase:    strings.TrimRight(opts.ImageBaseURL, "/"),
		now:          opts.Now,
		categories:   categories,
		watchlistIDs: make(map[int]struct{}),
		subs:         make(map[uuid.UUID]func()),
	}
}

// Subscribe registers a callback invoked after every state change and
// returns a token for Unsubscribe
func (s *Store) Subscribe(fn func()) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()
	return id
}

// Unsubscribe removes a previously registered callback
func (s *Store) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// notify runs the subscriber callbacks outside the state lock
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// Category returns a snapshot of the given category's state
func (s *Store) Category(cat Category) CategoryState {
	if !cat.IsValid() {
		panic(fmt.Sprintf("store: invalid category %q", cat))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.categories[cat]
	snapshot := *st
	snapshot.Items = append([]models.Movie(nil), st.Items...)
	return snapshot
}

// discoverOptions builds the discover query for a listing. Now playing and
// upcoming are date-windowed derivations, not literal API categories: now
// playing covers the last 60 days through today, upcoming covers tomorrow
// through two months out, both restricted to theatrical/digital releases.
func (s *Store) discoverOptions(cat Category, page int) tmdb.DiscoverOptions {
	today := s.now()
	opts := tmdb.DiscoverOptions{
		Page:   page,
		SortBy: "popularity.desc",
	}

	switch cat {
	case CategoryNowPlaying:
		opts.ReleaseDateGTE = today.AddDate(0, 0, -60).Format(dateLayout)
		opts.ReleaseDateLTE = today.Format(dateLayout)
		opts.WithReleaseType = releaseTypeTheatricalDigital
	case CategoryUpcoming:
		opts.ReleaseDateGTE = today.AddDate(0, 0, 1).Format(dateLayout)
		opts.ReleaseDateLTE = today.AddDate(0, 2, 0).Format(dateLayout)
		opts.WithReleaseType = releaseTypeTheatricalDigital
	case CategoryPopular:
		// plain popularity listing, no window
	default:
		panic(fmt.Sprintf("store: category %q is not a discover listing", cat))
	}

	return opts
}

// FetchCategory loads one page of a discover listing into the category's
// state. Loading is set before the request and cleared on every exit path;
// a fetch for a category that is already loading returns without issuing a
// second request. Passing CategorySearch or an unknown category is a caller
// bug and panics.
func (s *Store) FetchCategory(ctx context.Context, cat Category, page int) {
	if page < 1 {
		page = 1
	}
	opts := s.discoverOptions(cat, page)

	s.mu.Lock()
	st := s.categories[cat]
	if st.Loading {
		// in-flight guard: drop the duplicate request
		s.mu.Unlock()
		return
	}
	st.Loading = true
	st.Err = ""
	s.mu.Unlock()
	s.notify()

	list, err := s.client.DiscoverMovies(ctx, opts)

	s.mu.Lock()
	st.Loading = false
	if err != nil {
		st.Err = fmt.Sprintf("could not load %s movies: %v", cat, err)
	} else {
		st.Items = list.Results
		st.CurrentPage = list.Page
		st.TotalPages = list.TotalPages
	}
	s.mu.Unlock()
	s.notify()
}

// fetchIfEmpty implements the cache rule for the convenience wrappers: any
// already-cached item blocks a silent refetch unless forced
func (s *Store) fetchIfEmpty(ctx context.Context, cat Category, force bool) {
	if !force {
		s.mu.RLock()
		cached := len(s.categories[cat].Items) > 0
		s.mu.RUnlock()
		if cached {
			return
		}
	}
	s.FetchCategory(ctx, cat, 1)
}

// FetchNowPlaying loads the now playing listing unless it is already cached
func (s *Store) FetchNowPlaying(ctx context.Context, force bool) {
	s.fetchIfEmpty(ctx, CategoryNowPlaying, force)
}

// FetchUpcoming loads the upcoming listing unless it is already cached
func (s *Store) FetchUpcoming(ctx context.Context, force bool) {
	s.fetchIfEmpty(ctx, CategoryUpcoming, force)
}

// FetchPopular loads the popular listing unless it is already cached
func (s *Store) FetchPopular(ctx context.Context, force bool) {
	s.fetchIfEmpty(ctx, CategoryPopular, force)
}

// RefreshAll launches one forced fetch per discover listing concurrently
// and waits for all of them. Failures stay in the per-category error slots.
func (s *Store) RefreshAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for _, cat := range discoverCategories {
		g.Go(func() error {
			s.FetchCategory(ctx, cat, 1)
			return nil
		})
	}
	_ = g.Wait()
}

// ClearCache resets every category's items and pagination counters to
// their initial values. Loading and error state are left as they are.
func (s *Store) ClearCache() {
	s.mu.Lock()
	for _, st := range s.categories {
		st.Items = nil
		st.CurrentPage = 1
		st.TotalPages = 0
	}
	s.mu.Unlock()
	s.notify()
}

// FetchMovieDetail loads a movie with its credits and replaces the detail
// slot. On failure the previous detail is kept, the error is recorded and
// nil is returned. Every call refetches; details are not cached.
func (s *Store) FetchMovieDetail(ctx context.Context, movieID int) *models.MovieDetail {
	s.mu.Lock()
	s.detailLoading = true
	s.detailErr = ""
	s.mu.Unlock()
	s.notify()

	detail, err := s.client.GetMovieDetails(ctx, movieID)

	s.mu.Lock()
	s.detailLoading = false
	if err != nil {
		s.detailErr = fmt.Sprintf("could not load movie %d: %v", movieID, err)
		s.mu.Unlock()
		s.notify()
		return nil
	}
	s.detail = detail
	s.mu.Unlock()
	s.notify()

	return detail
}

// Detail returns the currently viewed movie detail, if any
func (s *Store) Detail() *models.MovieDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detail
}

// DetailLoading reports whether a detail fetch is in flight
func (s *Store) DetailLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detailLoading
}

// DetailError returns the last detail fetch error, if any
func (s *Store) DetailError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detailErr
}

// IsInWatchlist reports local watchlist membership; it never calls the API
func (s *Store) IsInWatchlist(movieID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.watchlistIDs[movieID]
	return ok
}

// AddToWatchlist marks a movie as watchlisted on the remote account and,
// only after the remote confirms success, appends it locally. Returns
// whether the movie was added; adding an already-present movie is a no-op
// that skips the network call.
func (s *Store) AddToWatchlist(ctx context.Context, movie models.Movie) bool {
	if s.IsInWatchlist(movie.ID) {
		return false
	}

	result, err := s.client.SetWatchlist(ctx, movie.ID, true)

	s.mu.Lock()
	if err != nil {
		s.watchlistErr = fmt.Sprintf("could not add %q to watchlist: %v", movie.Title, err)
		s.mu.Unlock()
		s.notify()
		return false
	}
	if !result.Success {
		s.watchlistErr = fmt.Sprintf("could not add %q to watchlist: %s", movie.Title, result.StatusMessage)
		s.mu.Unlock()
		s.notify()
		return false
	}
	s.watchlistErr = ""
	s.watchlist = append(s.watchlist, movie)
	s.watchlistIDs[movie.ID] = struct{}{}
	s.mu.Unlock()
	s.notify()

	return true
}

// RemoveFromWatchlist clears the watchlist flag on the remote account and,
// only after the remote confirms success, drops the movie locally. Returns
// whether the movie was removed; removing an absent movie is a no-op that
// skips the network call.
func (s *Store) RemoveFromWatchlist(ctx context.Context, movieID int) bool {
	if !s.IsInWatchlist(movieID) {
		return false
	}

	result, err := s.client.SetWatchlist(ctx, movieID, false)

	s.mu.Lock()
	if err != nil {
		s.watchlistErr = fmt.Sprintf("could not remove movie %d from watchlist: %v", movieID, err)
		s.mu.Unlock()
		s.notify()
		return false
	}
	if !result.Success {
		s.watchlistErr = fmt.Sprintf("could not remove movie %d from watchlist: %s", movieID, result.StatusMessage)
		s.mu.Unlock()
		s.notify()
		return false
	}
	s.watchlistErr = ""
	kept := s.watchlist[:0]
	for _, m := range s.watchlist {
		if m.ID != movieID {
			kept = append(kept, m)
		}
	}
	s.watchlist = kept
	delete(s.watchlistIDs, movieID)
	s.mu.Unlock()
	s.notify()

	return true
}

// ToggleWatchlist adds or removes depending on current membership. The
// returned boolean is the resulting membership state, so a failed add
// reports false and a failed remove reports true.
func (s *Store) ToggleWatchlist(ctx context.Context, movie models.Movie) bool {
	if s.IsInWatchlist(movie.ID) {
		s.RemoveFromWatchlist(ctx, movie.ID)
	} else {
		s.AddToWatchlist(ctx, movie)
	}
	return s.IsInWatchlist(movie.ID)
}

// RefreshWatchlist replaces the local watchlist with the remote account's
// first watchlist page. This is the only path that syncs local membership
// from the remote; the mutation methods never do.
func (s *Store) RefreshWatchlist(ctx context.Context) {
	s.mu.Lock()
	s.watchlistLoading = true
	s.watchlistErr = ""
	s.mu.Unlock()
	s.notify()

	list, err := s.client.GetWatchlistMovies(ctx, 1)

	s.mu.Lock()
	s.watchlistLoading = false
	if err != nil {
		s.watchlistErr = fmt.Sprintf("could not load watchlist: %v", err)
	} else {
		s.watchlist = list.Results
		s.watchlistIDs = make(map[int]struct{}, len(list.Results))
		for _, m := range list.Results {
			s.watchlistIDs[m.ID] = struct{}{}
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Watchlist returns a snapshot of the local watchlist in insertion order
func (s *Store) Watchlist() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Movie(nil), s.watchlist...)
}

// WatchlistLoading reports whether a watchlist refetch is in flight
func (s *Store) WatchlistLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchlistLoading
}

// WatchlistError returns the last watchlist operation error, if any
func (s *Store) WatchlistError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchlistErr
}

// FetchAccount replaces the profile singleton wholesale
func (s *Store) FetchAccount(ctx context.Context) {
	s.mu.Lock()
	s.accountLoading = true
	s.accountErr = ""
	s.mu.Unlock()
	s.notify()

	account, err := s.client.GetAccount(ctx)

	s.mu.Lock()
	s.accountLoading = false
	if err != nil {
		s.accountErr = fmt.Sprintf("could not load account: %v", err)
	} else {
		s.account = account
	}
	s.mu.Unlock()
	s.notify()
}

// Account returns the current profile, if fetched
func (s *Store) Account() *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// AccountLoading reports whether a profile fetch is in flight
func (s *Store) AccountLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountLoading
}

// AccountError returns the last profile fetch error, if any
func (s *Store) AccountError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountErr
}
