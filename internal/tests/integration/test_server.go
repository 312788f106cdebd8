package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"meal-checkin/internal/app"
	"meal-checkin/internal/app/rest"
	"meal-checkin/internal/config"
	v1 "meal-checkin/internal/http/v1"
	"meal-checkin/internal/journal"
	"meal-checkin/internal/lib/logger"
	"meal-checkin/internal/lib/migrator"
	"meal-checkin/internal/repo"
	"meal-checkin/internal/roster"
	"meal-checkin/internal/service"
	"meal-checkin/internal/storage"
)

const rosterCSV = "\ufeffrut,nombre,curso,foto\r\n" +
	"11111111-1,Ana Contreras,1° Medio A,ana.png\r\n" +
	"\"22222222-2\",\"Soto, Benjamín\",2° Medio B,\r\n" +
	",Sin RUT,3° Medio C,\r\n"

var dbSeq atomic.Int64

// RemoteLog fakes the remote append-only log endpoint.
type RemoteLog struct {
	mu        sync.Mutex
	entries   []map[string]string
	submitted []map[string]string
}

func (l *RemoteLog) Seed(entries ...map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
}

func (l *RemoteLog) Submitted() []map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]map[string]string(nil), l.submitted...)
}

func (l *RemoteLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(append([]map[string]string{}, l.entries...))
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		var entry map[string]string
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		l.submitted = append(l.submitted, entry)
		_, _ = io.WriteString(w, `{"status":"success"}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type TestServer struct {
	Storage *storage.Storage
	Server  *httptest.Server
	Sheet   *httptest.Server
	Remote  *RemoteLog

	remoteServer *httptest.Server
	checkin      *service.CheckinService
	roster       *service.RosterService
}

// NewTestServer wires the full API over in-memory sqlite, a fake sheet and a
// fake remote log, with the clock frozen at now.
func NewTestServer(now time.Time) (*TestServer, error) {
	log := logger.Discard()

	cfg := config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:integration%d?mode=memory&cache=shared", dbSeq.Add(1)),
	}

	st, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrator.RunMigrations(cfg, log); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	schedule, err := app.NewSchedule(config.MealsConfig{
		TimeZone:       "America/Santiago",
		BreakfastStart: "08:00:00",
		BreakfastEnd:   "10:00:00",
		LunchStart:     "11:00:00",
		LunchEnd:       "23:50:00",
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	sheet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, rosterCSV)
	}))

	remote := &RemoteLog{}
	remoteServer := httptest.NewServer(remote)

	clock := func() time.Time { return now }

	studentRepo := repo.NewStudentRepo(st.GetDB())
	visitRepo := repo.NewVisitRepo(st.GetDB())

	journalClient := journal.New(log, remoteServer.URL, schedule.Location(), 5*time.Second, time.Second)

	rosterService := service.NewRosterService(log, roster.NewFetcher(log, sheet.URL, 5*time.Second), studentRepo)
	checkinService := service.NewCheckinService(log, studentRepo, visitRepo, journalClient, schedule, clock)
	dashboardService := service.NewDashboardService(log, visitRepo, schedule, clock)
	reportService := service.NewReportService(log, checkinService, visitRepo, nil, schedule, clock)

	handler := rest.NewHandler(log, &v1.RouterDependencies{
		CheckinService:   checkinService,
		RosterService:    rosterService,
		DashboardService: dashboardService,
		ReportService:    reportService,
	})

	return &TestServer{
		Storage:      st,
		Server:       httptest.NewServer(handler),
		Sheet:        sheet,
		Remote:       remote,
		remoteServer: remoteServer,
		checkin:      checkinService,
		roster:       rosterService,
	}, nil
}

func (s *TestServer) LoadFixtures() error {
	if _, err := s.roster.Reload(context.Background()); err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	return nil
}

// WaitSubmissions blocks until background writes to the remote log finish.
func (s *TestServer) WaitSubmissions() {
	s.checkin.Wait()
}

func (s *TestServer) Close() {
	s.checkin.Wait()
	s.Server.Close()
	s.Sheet.Close()
	s.remoteServer.Close()
	s.Storage.Close()
}
