package apphttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kawabatas/olympics-catalog/internal/app/usecase"
	"github.com/kawabatas/olympics-catalog/internal/domain/model"
	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
)

const maxPhotoBytes = 5 << 20

// Register wires API endpoints onto the provided mux.
func Register(mux *http.ServeMux, ds datastore.DataStore, opts ...usecase.Option) {
	mux.HandleFunc("GET /healthz", healthz(ds)) // DB接続も確認するため healthz

	c := usecase.NewCatalog(ds, opts...)
	registerForm(mux, "/api/v1/sports", c.Sports, formHooks[model.Sport]{})
	registerForm(mux, "/api/v1/teams", c.Teams, formHooks[model.Team]{})
	registerForm(mux, "/api/v1/games", c.Games, formHooks[model.Games]{})
	registerForm(mux, "/api/v1/athletes", c.Athletes, formHooks[model.Athlete]{
		list: func(r *http.Request) ([]model.Athlete, error) {
			return c.SearchAthletes(r.Context(), r.URL.Query().Get("q"))
		},
		// 写真は /photo でのみ変更する
		replace: func(current model.Athlete, in *model.Athlete) { in.Photo = current.Photo },
	})
	registerForm(mux, "/api/v1/events", c.Events, formHooks[model.Event]{
		list: func(r *http.Request) ([]model.Event, error) {
			sportID, err := queryID(r, "sport_id")
			if err != nil {
				return nil, err
			}
			gamesID, err := queryID(r, "games_id")
			if err != nil {
				return nil, err
			}
			return c.EventsFor(r.Context(), sportID, gamesID)
		},
	})

	mux.HandleFunc("GET /api/v1/athletes/{id}/photo", getPhoto(c.Athletes))
	mux.HandleFunc("PUT /api/v1/athletes/{id}/photo", putPhoto(c.Athletes))
	mux.HandleFunc("GET /api/v1/athletes/{id}/participations", listParticipations(c.Participations))
	mux.HandleFunc("POST /api/v1/participations", linkParticipation(c.Participations))
	mux.HandleFunc("DELETE /api/v1/participations/{athlete_id}/{event_id}", unlinkParticipation(c.Participations))
}

func healthz(ds datastore.DataStore) http.HandlerFunc {
	type resp struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ds.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, resp{Status: "ng"})
			return
		}
		writeJSON(w, http.StatusOK, resp{Status: "ok"})
	}
}

type listResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// formHooks customise one resource. list overrides the plain listing for
// resources with filters; replace adjusts the PUT body before it is saved.
type formHooks[T model.Entity] struct {
	list    func(*http.Request) ([]T, error)
	replace func(current T, in *T)
}

// registerForm exposes one catalogue form as a REST resource.
func registerForm[T model.Entity](mux *http.ServeMux, base string, f *usecase.Form[T], hooks formHooks[T]) {
	list := hooks.list
	if list == nil {
		list = func(r *http.Request) ([]T, error) { return f.Load(r.Context()) }
	}

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r)
		if errors.Is(err, errBadQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeRepoError(w, err, "failed to list "+f.Noun())
			return
		}
		writeJSON(w, http.StatusOK, listResult[T]{Items: items, Total: len(items)})
	})

	mux.HandleFunc("GET "+base+"/{id}", withItem(f, func(w http.ResponseWriter, r *http.Request, item T) {
		writeJSON(w, http.StatusOK, item)
	}))

	mux.HandleFunc("GET "+base+"/{id}/deletable", withItem(f, func(w http.ResponseWriter, r *http.Request, item T) {
		writeJSON(w, http.StatusOK, f.Select(r.Context(), item))
	}))

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		writeOutcome(w, http.StatusCreated, f.Save(r.Context(), nil, in))
	})

	mux.HandleFunc("PUT "+base+"/{id}", withItem(f, func(w http.ResponseWriter, r *http.Request, current T) {
		var in T
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if hooks.replace != nil {
			hooks.replace(current, &in)
		}
		writeOutcome(w, http.StatusOK, f.Save(r.Context(), &current, in))
	}))

	mux.HandleFunc("DELETE "+base+"/{id}", withItem(f, func(w http.ResponseWriter, r *http.Request, item T) {
		writeOutcome(w, http.StatusOK, f.Delete(r.Context(), item))
	}))
}

// withItem resolves the {id} path value to a stored entity before calling next.
func withItem[T model.Entity](f *usecase.Form[T], next func(http.ResponseWriter, *http.Request, T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		item, err := f.Get(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, f.Noun()+" not available")
			return
		}
		next(w, r, item)
	}
}

func getPhoto(f *usecase.Form[model.Athlete]) http.HandlerFunc {
	return withItem(f, func(w http.ResponseWriter, r *http.Request, a model.Athlete) {
		if !a.HasPhoto() {
			writeError(w, http.StatusNotFound, "athlete has no photo")
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(a.Photo))
		w.Header().Set("Content-Length", strconv.Itoa(len(a.Photo)))
		_, _ = w.Write(a.Photo)
	})
}

func putPhoto(f *usecase.Form[model.Athlete]) http.HandlerFunc {
	return withItem(f, func(w http.ResponseWriter, r *http.Request, current model.Athlete) {
		photo, err := io.ReadAll(io.LimitReader(r.Body, maxPhotoBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read photo")
			return
		}
		if len(photo) > maxPhotoBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "photo too large")
			return
		}
		updated := current
		updated.ID = 0
		updated.Photo = photo
		if len(photo) == 0 {
			updated.Photo = nil
		}
		writeOutcome(w, http.StatusOK, f.Save(r.Context(), &current, updated))
	})
}

func listParticipations(s *usecase.ParticipationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		items, err := s.ForAthlete(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "failed to list participations")
			return
		}
		writeJSON(w, http.StatusOK, listResult[model.Participation]{Items: items, Total: len(items)})
	}
}

func linkParticipation(s *usecase.ParticipationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Participation
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		writeOutcome(w, http.StatusCreated, s.Link(r.Context(), p))
	}
}

func unlinkParticipation(s *usecase.ParticipationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		athleteID, ok := pathID(w, r, "athlete_id")
		if !ok {
			return
		}
		eventID, ok := pathID(w, r, "event_id")
		if !ok {
			return
		}
		writeOutcome(w, http.StatusOK, s.Unlink(r.Context(), athleteID, eventID))
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

var errBadQuery = errors.New("invalid query parameter")

// queryID は任意のクエリ ID を読む。パラメータ自体が無ければ 0（絞り込みなし）
func queryID(r *http.Request, name string) (int64, error) {
	q := r.URL.Query()
	if !q.Has(name) {
		return 0, nil
	}
	id, err := strconv.ParseInt(q.Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", errBadQuery, name)
	}
	return id, nil
}
