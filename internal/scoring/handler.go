package scoring

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/platform/httpx"
)

// Handler exposes the leaderboard API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      capability.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw capability.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers leaderboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(capability.ViewLeaderboard))
		r.Get("/", h.leaderboard)
	})
}

type leaderboardRow struct {
	EmployeeScore
	Bonus        int64  `json:"bonus"`
	BonusDisplay string `json:"bonus_display"`
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	scores, err := h.service.Leaderboard(r.Context(), period)
	if err != nil {
		h.logger.Error("compute leaderboard", slog.String("period", string(period)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	rows := make([]leaderboardRow, len(scores))
	for i, score := range scores {
		bonus := BonusFor(score.AverageScore, score.Rank)
		rows[i] = leaderboardRow{
			EmployeeScore: score,
			Bonus:         bonus,
			BonusDisplay:  FormatAmount(bonus),
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"entries": rows,
	})
}
