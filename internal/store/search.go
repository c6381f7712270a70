package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/misterbo271/movie-database-app-mienpv/internal/models"
)

// Search runs a remote title search and returns the locally filtered,
// release-date-ranked results. Results are handed straight back to the
// caller; they are not stored under the search category, though the search
// category's loading and error slots are maintained on both paths. A query
// that is empty after trimming short-circuits without a remote call.
func (s *Store) Search(ctx context.Context, query string) []models.Movie {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	st := s.categories[CategorySearch]
	st.Loading = true
	st.Err = ""
	s.mu.Unlock()
	s.notify()

	if query == "" {
		s.mu.Lock()
		st.Loading = false
		s.mu.Unlock()
		s.notify()
		return []models.Movie{}
	}

	list, err := s.client.SearchMovies(ctx, query, 1)

	s.mu.Lock()
	st.Loading = false
	if err != nil {
		st.Err = fmt.Sprintf("could not search for %q: %v", query, err)
		s.mu.Unlock()
		s.notify()
		return nil
	}
	s.mu.Unlock()
	s.notify()

	results := filterByQuery(query, list.Results)
	sortByReleaseDate(results)
	return results
}

// filterByQuery keeps movies matching the query by substring or, for a
// single term of two or more characters, by title initials
func filterByQuery(query string, movies []models.Movie) []models.Movie {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []models.Movie{}
	}

	matched := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if matchesTerms(terms, m) || matchesInitials(terms, m) {
			matched = append(matched, m)
		}
	}
	return matched
}

// matchesTerms reports whether any term is a substring of the title or the
// original title
func matchesTerms(terms []string, m models.Movie) bool {
	title := strings.ToLower(m.Title)
	original := strings.ToLower(m.OriginalTitle)
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(original, term) {
			return true
		}
	}
	return false
}

// matchesInitials is the fallback for single-term queries of length >= 2:
// the term must appear in the initials of the title or the original title
func matchesInitials(terms []string, m models.Movie) bool {
	if len(terms) != 1 || len(terms[0]) < 2 {
		return false
	}
	term := terms[0]
	return strings.Contains(initials(m.Title), term) ||
		strings.Contains(initials(m.OriginalTitle), term)
}

// initials concatenates the lowercased first letter of each word
func initials(s string) string {
	var b strings.Builder
	for _, word := range strings.Fields(s) {
		r := []rune(word)
		b.WriteRune(r[0])
	}
	return strings.ToLower(b.String())
}

// sortByReleaseDate orders movies newest first. Movies without a release
// date sort last, keeping their relative order.
func sortByReleaseDate(movies []models.Movie) {
	sort.SliceStable(movies, func(i, j int) bool {
		a, b := movies[i].ReleaseDate, movies[j].ReleaseDate
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		// ISO dates compare correctly as strings
		return a > b
	})
}
