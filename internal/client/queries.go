package client

// FilmQuery fetches one film by id.
const FilmQuery = `query Film($id: String!) {
  film(id: $id) {
    id
    title
    description
    director
    release_date
    running_time
    rt_score
    movie_banner
    image
  }
}`

// FilmsQuery lists every film.
const FilmsQuery = `query Films {
  films {
    id
    title
    description
    director
    release_date
    running_time
    rt_score
    movie_banner
    image
  }
}`
