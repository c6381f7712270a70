package models

// Movie represents a movie summary as returned by the catalog list endpoints
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	PosterPath    *string `json:"poster_path"`
	BackdropPath  *string `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
	Popularity    float64 `json:"popularity,omitempty"`
}

// Genre is a resolved genre record on a movie detail
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a company credited on a movie detail
type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// CastMember is a single ordered cast credit
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// CrewMember is a single crew credit
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits holds the cast and crew attached to a movie detail.
// The sub-resource is optional: a detail without credits is still valid.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetail extends Movie with the fields only present on the
// single-movie endpoint
type MovieDetail struct {
	Movie
	Genres              []Genre             `json:"genres"`
	Runtime             int                 `json:"runtime"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	OriginalLanguage    string              `json:"original_language"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	Credits             *Credits            `json:"credits,omitempty"`
}

// MovieList is the paginated envelope shared by the list endpoints
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}
