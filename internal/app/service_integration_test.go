package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/matchbalance/internal/adapters/repository"
	service "github.com/okian/matchbalance/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_ConcurrentMatchmakingAndMonitoring(t *testing.T) {
	Convey("Given a started service shared by writers and readers", t, func() {
		dir := t.TempDir()
		logPath := filepath.Join(dir, "logs.json")
		svc := service.New(
			service.WithLogPath(logPath),
			service.WithResultPath(filepath.Join(dir, "best_split.json")),
			service.WithLogCapacity(5),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When matchmaking and monitoring run concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 40)
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := svc.Matchmake(ctx, records(0.7, 0.6, 0.5, 0.4, 0.6, 0.5, 0.4, 0.3))
					errs <- err
				}()
				go func() {
					defer wg.Done()
					report, err := svc.Monitor(ctx)
					if err == nil && report.TotalEntries > 5 {
						t.Errorf("monitor saw %d entries", report.TotalEntries)
					}
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every call should succeed and the log should stay bounded", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				entries, err := svc.Entries(ctx)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 5)
				So(svc.GetStats()["matchesRecorded"], ShouldEqual, 20)
			})

			Convey("And the file on disk should match memory after a restart", func() {
				before, err := svc.Entries(ctx)
				So(err, ShouldBeNil)
				svc.Stop()

				reopened, err := repository.Open(ctx, logPath, repository.WithCapacity(5))
				So(err, ShouldBeNil)
				after := reopened.Entries(ctx)
				So(len(after), ShouldEqual, len(before))
				for i := range before {
					So(after[i].MatchID, ShouldEqual, before[i].MatchID)
				}
			})
		})
	})
}
