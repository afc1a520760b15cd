package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/matchbalance/internal/adapters/http/api"
	service "github.com/okian/matchbalance/internal/app"
	"github.com/okian/matchbalance/internal/domain/model"
	"github.com/okian/matchbalance/internal/domain/monitor"
	"github.com/okian/matchbalance/internal/domain/partition"
	"github.com/okian/matchbalance/internal/domain/predict"
	"github.com/okian/matchbalance/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	matchResult model.MatchResult
	matchErr    error
	entries     []model.MatchLogEntry
	entriesErr  error
	recorded    [][]model.PlayerRecord
}

func (m *mockDependencies) Split(_ context.Context, roster model.Roster) (model.Split, []model.Split, error) {
	return partition.FindBestSplit(roster)
}

func (m *mockDependencies) Matchmake(_ context.Context, records []model.PlayerRecord) (model.MatchResult, error) {
	m.recorded = append(m.recorded, records)
	return m.matchResult, m.matchErr
}

func (m *mockDependencies) Entries(_ context.Context) ([]model.MatchLogEntry, error) {
	return m.entries, m.entriesErr
}

func (m *mockDependencies) Monitor(_ context.Context) (model.MonitorReport, error) {
	if m.entriesErr != nil {
		return model.MonitorReport{}, m.entriesErr
	}
	return monitor.Analyze(m.entries), nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func rosterJSON(n int) string {
	players := make([]string, n)
	for i := range players {
		players[i] = fmt.Sprintf(`{"name": "p%d", "win_ratio": %.2f}`, i+1, 0.3+float64(i)*0.05)
	}
	return `{"players": [` + strings.Join(players, ",") + `]}`
}

func recordsJSON(n int) string {
	players := make([]string, n)
	for i := range players {
		players[i] = fmt.Sprintf(`{"name": "p%d", "features": {"win_ratio": %.2f}}`, i+1, 0.3+float64(i)*0.05)
	}
	return `{"players": [` + strings.Join(players, ",") + `]}`
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) (code, message string) {
	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
	return resp.Code, resp.Message
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{}
		server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{}})
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should be accessible", func() {
				So(do(mux, "GET", "/healthz", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				So(do(mux, "GET", "/stats", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("And splits endpoint should validate its body", func() {
				So(do(mux, "POST", "/splits", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And matches endpoint should be accessible", func() {
				So(do(mux, "GET", "/matches", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("And monitor endpoint should be accessible", func() {
				So(do(mux, "GET", "/monitor", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown paths should not be found", func() {
				So(do(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSplitsHandler_HandlePostSplits(t *testing.T) {
	Convey("Given a splits handler", t, func() {
		deps := &mockDependencies{}
		handler := http.HandlerFunc(api.NewSplitsHandler(deps).HandlePostSplits)

		Convey("When posting eight players", func() {
			w := do(handler, "POST", "/splits", rosterJSON(8))

			Convey("Then it should return the best split and all 35 ranked", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Best   model.Split   `json:"best"`
					Ranked []model.Split `json:"ranked"`
				}
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(len(resp.Ranked), ShouldEqual, partition.SplitCount)
				So(resp.Best, ShouldResemble, resp.Ranked[0])
				So(resp.Best.TeamA[0], ShouldEqual, "p1")
			})

			Convey("And nothing should be recorded", func() {
				So(deps.recorded, ShouldBeEmpty)
			})
		})

		Convey("When posting seven players", func() {
			w := do(handler, "POST", "/splits", rosterJSON(7))

			Convey("Then it should return invalid_roster_size", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, msg := decodeError(w)
				So(code, ShouldEqual, "invalid_roster_size")
				So(msg, ShouldContainSubstring, "got 7 players")
			})
		})

		Convey("When posting a duplicate player", func() {
			body := strings.Replace(rosterJSON(8), `"p8"`, `"p1"`, 1)
			w := do(handler, "POST", "/splits", body)

			Convey("Then it should return duplicate_player", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "duplicate_player")
			})
		})

		Convey("When posting a player without a name", func() {
			body := strings.Replace(rosterJSON(8), `"p4"`, `""`, 1)
			w := do(handler, "POST", "/splits", body)

			Convey("Then it should return invalid_player", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "invalid_player")
			})
		})

		Convey("When posting malformed JSON", func() {
			w := do(handler, "POST", "/splits", `{"players": [`)

			Convey("Then it should return bad_request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "bad_request")
			})
		})

		Convey("When using the wrong method", func() {
			w := do(handler, "GET", "/splits", "")

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMatchesHandler_HandleMatches(t *testing.T) {
	Convey("Given a matches handler", t, func() {
		deps := &mockDependencies{
			matchResult: model.MatchResult{
				Match:        model.MatchLogEntry{MatchID: "m-1", Players: []string{"p1"}},
				Best:         model.Split{TeamA: []string{"p1"}, PA: 0.5, PB: 0.5},
				Persisted:    false,
				PersistError: "disk full",
			},
		}
		handler := http.HandlerFunc(api.NewMatchesHandler(deps).HandleMatches)

		Convey("When posting a match whose storage failed", func() {
			w := do(handler, "POST", "/matches", recordsJSON(8))

			Convey("Then it should still answer 200 with persisted=false", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.NewDecoder(w.Body).Decode(&resp), ShouldBeNil)
				So(resp["persisted"], ShouldEqual, false)
				So(resp["persist_error"], ShouldEqual, "disk full")
				So(resp, ShouldContainKey, "best")
				So(resp, ShouldNotContainKey, "ranked")
				So(len(deps.recorded), ShouldEqual, 1)
				So(deps.recorded[0][2].Features["win_ratio"], ShouldEqual, 0.4)
			})
		})

		Convey("When prediction fails", func() {
			deps.matchErr = fmt.Errorf("predict %q: %w", "p3", predict.ErrMissingFeature)
			w := do(handler, "POST", "/matches", recordsJSON(8))

			Convey("Then it should return invalid_player", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "invalid_player")
			})
		})

		Convey("When the service is not started", func() {
			deps.matchErr = service.ErrNotStarted
			w := do(handler, "POST", "/matches", recordsJSON(8))

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				code, _ := decodeError(w)
				So(code, ShouldEqual, "unavailable")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.matchErr = errors.New("boom")
			w := do(handler, "POST", "/matches", recordsJSON(8))

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When listing an empty log", func() {
			w := do(handler, "GET", "/matches", "")

			Convey("Then it should return an empty list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"entries":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"count":0`)
			})
		})

		Convey("When the log is unavailable", func() {
			deps.entriesErr = service.ErrNotStarted
			w := do(handler, "GET", "/matches", "")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When using the wrong method", func() {
			So(do(handler, "DELETE", "/matches", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMonitorHandler_HandleGetMonitor(t *testing.T) {
	Convey("Given a monitor handler over a log with one bad entry", t, func() {
		deps := &mockDependencies{
			entries: []model.MatchLogEntry{
				{MatchID: "ok", Players: []string{"a", "b", "c", "d", "e", "f", "g", "h"}, WinrateA: 0.5, WinrateB: 0.5},
				{MatchID: "bad", Players: []string{"a", "a", "c", "d", "e", "f", "g"}, WinrateA: 0.8, WinrateB: 0.2},
			},
		}
		handler := http.HandlerFunc(api.NewMonitorHandler(deps).HandleGetMonitor)

		Convey("When requesting the report", func() {
			w := do(handler, "GET", "/monitor", "")

			Convey("Then it should report every anomaly of the bad entry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var report model.MonitorReport
				So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
				So(report.TotalEntries, ShouldEqual, 2)
				So(report.Anomalies, ShouldEqual, 3)
				So(report.Stats, ShouldNotBeNil)
				So(report.Stats.PercentUnbalanced, ShouldEqual, 50.0)
			})
		})

		Convey("When the log is unavailable", func() {
			deps.entriesErr = service.ErrNotStarted
			So(do(handler, "GET", "/monitor", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When using the wrong method", func() {
			So(do(handler, "POST", "/monitor", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"started":         true,
				"matchesRecorded": 12,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["started"], ShouldEqual, true)
				So(response["matchesRecorded"], ShouldEqual, 12.0)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			})
		})

		Convey("When posting to stats", func() {
			w := httptest.NewRecorder()
			handler.HandleStats(w, httptest.NewRequest("POST", "/stats", nil))

			Convey("Then it should not be found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := partition.ErrDuplicatePlayer
		err := api.WrapKind("api.post_splits", api.ErrInvalidRoster, cause)

		Convey("Then both the kind and the cause should match", func() {
			So(errors.Is(err, api.ErrInvalidRoster), ShouldBeTrue)
			So(errors.Is(err, partition.ErrDuplicatePlayer), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.post_splits: invalid roster: duplicate player")
		})
	})
}

func TestServer_EndToEnd(t *testing.T) {
	Convey("Given the API wired to a started service", t, func() {
		dir := t.TempDir()
		svc := service.New(
			service.WithLogPath(filepath.Join(dir, "logs.json")),
			service.WithResultPath(filepath.Join(dir, "best_split.json")),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)

		Convey("When recording two matches", func() {
			for i := 0; i < 2; i++ {
				So(do(mux, "POST", "/matches", recordsJSON(8)).Code, ShouldEqual, http.StatusOK)
			}

			Convey("Then they should be listed and monitored", func() {
				w := do(mux, "GET", "/matches", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"count":2`)

				w = do(mux, "GET", "/monitor", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var report model.MonitorReport
				So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
				So(report.TotalEntries, ShouldEqual, 2)
				So(report.Healthy(), ShouldBeTrue)

				w = do(mux, "GET", "/stats", "")
				So(w.Body.String(), ShouldContainSubstring, `"logEntries":2`)
			})
		})
	})
}
