package catalog

// Film is one catalog entry as returned by the upstream API. Every attribute
// is an optional string; absent attributes stay nil.
type Film struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Director    *string `json:"director"`
	ReleaseDate *string `json:"release_date"`
	RunningTime *string `json:"running_time"`
	RTScore     *string `json:"rt_score"`
	MovieBanner *string `json:"movie_banner"`
	Image       *string `json:"image"`
}
