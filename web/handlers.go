package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/chessresults"
	"github.com/darshanscodesoftwares/chess-arbiter/controller"
	"github.com/darshanscodesoftwares/chess-arbiter/db"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

// All JSON endpoints answer with the {"success": ...} envelope the admin
// SPA and the arbiter page expect.
func renderOK(render *render.Render, w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["success"] = true
	render.JSON(w, http.StatusOK, data)
}

func renderErr(render *render.Render, w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", strconv.Itoa(int(chessresults.RetryCooldown.Seconds())))
	}
	render.JSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, chessresults.ErrScrapeInProgress):
		return http.StatusTooManyRequests
	case errors.Is(err, chessresults.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, db.ErrRangeOverlap),
		errors.Is(err, db.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, db.ErrAssignmentNotFound),
		errors.Is(err, db.ErrArbiterNotFound),
		errors.Is(err, db.ErrTournamentNotFound),
		errors.Is(err, controller.ErrNoAssignments):
		return http.StatusNotFound
	case errors.Is(err, chessresults.ErrInvalidSourceURL),
		errors.Is(err, controller.ErrRangeInvalid),
		errors.Is(err, controller.ErrMissingTournamentContext),
		errors.Is(err, controller.ErrBoardNotInRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func adminLoginHandler(password string, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing login request: %w", err))
			return
		}

		if password == "" || body.Password != password {
			render.JSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "invalid password",
			})
			return
		}

		renderOK(render, w, nil)
	}
}

func tournamentKeysHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sourceURL := r.URL.Query().Get("url")

		keys, err := ctrl.ResolveTournament(r.Context(), sourceURL)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{
			"dbKey":          keys.DBKey,
			"sidKey":         keys.SidKey,
			"round":          keys.Round,
			"tournamentName": keys.Name,
		})
	}
}

func tournamentPairingsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DBKey  string `json:"dbKey"`
			SidKey string `json:"sidKey"`
			Round  int    `json:"round"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing pairings request: %w", err))
			return
		}

		pairings, err := ctrl.FetchPairings(r.Context(), body.DBKey, body.SidKey, body.Round)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{
			"round":    body.Round,
			"pairings": pairings,
		})
	}
}

func tournamentListHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := ctrl.ListTournaments(r.Context())
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"tournaments": tournaments})
	}
}

func mergedResultsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbKey := r.URL.Query().Get("dbKey")
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil {
			renderErr(render, w, controller.ErrMissingTournamentContext)
			return
		}

		merged, err := ctrl.MergedResults(r.Context(), dbKey, round)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"pairings": merged})
	}
}

func exportXMLHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DBKey string `json:"dbKey"`
			Round int    `json:"round"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing export request: %w", err))
			return
		}

		out, err := ctrl.ExportRoundXML(r.Context(), body.DBKey, body.Round)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="Round_%d_Results.xml"`, body.Round))
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}

func listArbitersHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arbiters, err := ctrl.ListArbiters(r.Context())
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"arbiters": arbiters})
	}
}

func addArbiterHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing arbiter request: %w", err))
			return
		}

		a, err := ctrl.AddArbiter(r.Context(), body.Name, body.Email, body.Phone)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"arbiter": a})
	}
}

func availabilityHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		round, errRound := strconv.Atoi(q.Get("round"))
		total, errTotal := strconv.Atoi(q.Get("totalBoards"))
		if errRound != nil || errTotal != nil {
			renderErr(render, w, controller.ErrMissingTournamentContext)
			return
		}

		av, err := ctrl.GetAvailability(r.Context(), q.Get("dbKey"), round, total)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{
			"totalBoards":    av.TotalBoards,
			"assignedCount":  av.AssignedCount,
			"remainingCount": av.RemainingCount,
			"assignments":    av.Assignments,
		})
	}
}

func listAssignmentsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbKey := r.URL.Query().Get("dbKey")
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil {
			renderErr(render, w, controller.ErrMissingTournamentContext)
			return
		}

		assignments, err := ctrl.ListAssignments(r.Context(), dbKey, round)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		views := make([]assignmentView, 0, len(assignments))
		for i := range assignments {
			views = append(views, newAssignmentView(&assignments[i]))
		}
		renderOK(render, w, map[string]any{"assignments": views})
	}
}

func createAssignmentHandler(ctrl controller.C, render *render.Render, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DBKey     string          `json:"dbKey"`
			SidKey    string          `json:"sidKey"`
			Round     int             `json:"round"`
			ArbiterID int32           `json:"arbiterId"`
			BoardFrom int             `json:"boardFrom"`
			BoardTo   int             `json:"boardTo"`
			Pairings  []model.Pairing `json:"pairings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing assignment request: %w", err))
			return
		}

		a, err := ctrl.CreateAssignment(r.Context(), controller.CreateAssignmentRequest{
			DBKey:     body.DBKey,
			SidKey:    body.SidKey,
			Round:     body.Round,
			ArbiterID: body.ArbiterID,
			BoardFrom: body.BoardFrom,
			BoardTo:   body.BoardTo,
			Pairings:  body.Pairings,
		})
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{
			"token":    a.Token,
			"shareUrl": fmt.Sprintf("%s/arbiter/%s", baseURL, a.Token),
		})
	}
}

func getAssignmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		a, err := ctrl.GetAssignmentByToken(r.Context(), token)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"assignment": newAssignmentView(a)})
	}
}

func recordResultsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		var body struct {
			Results []model.BoardResult `json:"results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			renderErr(render, w, fmt.Errorf("error parsing results request: %w", err))
			return
		}

		if err := ctrl.RecordResults(r.Context(), token, body.Results); err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, nil)
	}
}

func submitAssignmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		submittedAt, err := ctrl.SubmitAssignment(r.Context(), token)
		if err != nil {
			renderErr(render, w, err)
			return
		}

		renderOK(render, w, map[string]any{"submittedAt": submittedAt})
	}
}

// assignmentView is the wire shape of an assignment for both the admin list
// and the arbiter page. Results go out as an array ordered by board, which
// is what the arbiter page consumes.
type assignmentView struct {
	Token       string              `json:"token"`
	DBKey       string              `json:"dbKey"`
	Round       int                 `json:"round"`
	Arbiter     arbiterRef          `json:"arbiter"`
	BoardFrom   int                 `json:"boardFrom"`
	BoardTo     int                 `json:"boardTo"`
	Pairings    []model.Pairing     `json:"pairings"`
	Results     []model.BoardResult `json:"results"`
	IsSubmitted bool                `json:"isSubmitted"`
	SubmittedAt *time.Time          `json:"submittedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type arbiterRef struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

func newAssignmentView(a *model.Assignment) assignmentView {
	v := assignmentView{
		Token:     a.Token,
		DBKey:     a.DBKey,
		Round:     a.Round,
		Arbiter:   arbiterRef{ID: a.ArbiterID, Name: a.ArbiterName},
		BoardFrom: a.BoardFrom,
		BoardTo:   a.BoardTo,
		Pairings:  a.Pairings,
		Results:   make([]model.BoardResult, 0, len(a.Results)),
		IsSubmitted: a.IsSubmitted,
		CreatedAt: a.Created,
	}
	for board, result := range a.Results {
		v.Results = append(v.Results, model.BoardResult{Board: board, Result: result})
	}
	sort.Slice(v.Results, func(i, j int) bool {
		return v.Results[i].Board < v.Results[j].Board
	})
	if a.IsSubmitted && !a.SubmittedAt.IsZero() {
		t := a.SubmittedAt
		v.SubmittedAt = &t
	}
	return v
}
