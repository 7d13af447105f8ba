package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sportmed/trainingmonitor/internal/account"
	"github.com/sportmed/trainingmonitor/internal/analysis"
	"github.com/sportmed/trainingmonitor/internal/config"
	"github.com/sportmed/trainingmonitor/internal/logging"
	"github.com/sportmed/trainingmonitor/internal/patient"
	"github.com/sportmed/trainingmonitor/internal/planning"
	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/session"
	"github.com/sportmed/trainingmonitor/internal/studygroup"
	"github.com/sportmed/trainingmonitor/internal/workout"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfgToml, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error: load config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := cfgToml.Get(*env)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	if sentryDSN == "" {
		sentryDSN = cfg.SentryDSN
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   *env,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     sentryDSN,
	})

	log.Debugf("using server: %s", cfg.BaseURL())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-chOsInterrupt
		log.Warnln("interrupt received, aborting")
		cancel()
	}()

	client := rest.NewClient(cfg.BaseURL(), &http.Client{Timeout: 30 * time.Second})
	accounts := account.NewService(client)
	patients := patient.NewService(client)
	studyGroups := studygroup.NewService(client)
	workouts := workout.NewService(client)
	planner := planning.NewService(client)
	sessions := session.NewManager(client, accounts, session.NewFileStore(cfg.CredentialsFile))

	app := &app{
		patients:    patients,
		studyGroups: studyGroups,
		workouts:    workouts,
		planner:     planner,
		sessions:    sessions,
	}

	cmd, cmdArgs := args[0], args[1:]
	if err := app.run(ctx, cmd, cmdArgs); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	patients    *patient.Service
	studyGroups *studygroup.Service
	workouts    *workout.Service
	planner     *planning.Service
	sessions    *session.Manager
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.sessions.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "patients":
		return a.listPatients(ctx, args)
	case "groups":
		return a.listStudyGroups(ctx)
	case "overview":
		return a.overview(ctx, args)
	case "workout":
		return a.showWorkout(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "plan":
		return a.uploadPlan(ctx, args)
	case "steps":
		return a.uploadSteps(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}
	s, err := a.sessions.Login(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in: %s\n", s)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	s, err := a.sessions.Restore(ctx)
	if err != nil {
		return fmt.Errorf("no valid session, log in first: %w", err)
	}
	fmt.Printf("%s\n", s)
	return nil
}

func (a *app) listPatients(ctx context.Context, args []string) error {
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	summaries, err := a.patients.GetSummaries(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("get patient overviews: %w", err)
	}
	if len(args) > 0 {
		summaries = analysis.FilterPatients(summaries, strings.Join(args, ","))
	}

	for _, s := range summaries {
		state := "inactive"
		if s.Active {
			state = "active"
		}
		fmt.Printf(
			"[%d] %s %s (%s) - %s, week %d/%d, %.1fh total\n",
			s.ID, s.FirstName, s.LastName, state, s.TreatmentGoal,
			s.WeekProgress.Completed, s.WeekProgress.Total, s.TotalHours,
		)
	}
	fmt.Printf("%d patient(s)\n", len(summaries))
	return nil
}

func (a *app) listStudyGroups(ctx context.Context) error {
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	groups, err := a.studyGroups.GetStudyGroups(ctx)
	if err != nil {
		return fmt.Errorf("get study groups: %w", err)
	}
	for _, g := range groups {
		fmt.Printf("[%d] %s\n", g.ID, g.Name)
	}
	return nil
}

// overview prints the last 7 days of workouts, patient app style. For the
// clinician a patient id can be given to look at someone else's week.
func (a *app) overview(ctx context.Context, args []string) error {
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var patientID *int
	if len(args) > 0 {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid patient id %q", args[0])
		}
		patientID = &id
	}

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	overview, err := a.workouts.GetOverview(ctx, start, end, patientID)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}

	fmt.Printf("%s - %s\n", overview.Name, overview.TreatmentGoal)
	items := overview.Workouts
	analysis.SortByStartDesc(items)
	for _, w := range items {
		fmt.Printf(
			"[%d] %s type=%d %.0fs %.0fm rating=%d\n",
			w.WorkoutID, w.StartTime.Format(time.RFC3339), w.Type,
			w.Duration, w.Distance, w.Rating,
		)
	}

	week := analysis.TotalsForDays(items, lastDays(end, 7))
	fmt.Printf(
		"week: running %.0fm/%.0fs, cycling %.0fm/%.0fs\n",
		week.RunningDistance, week.RunningDuration,
		week.CyclingDistance, week.CyclingDuration,
	)
	return nil
}

func (a *app) showWorkout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: workout <id> [sampleRate]")
	}
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var id int
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid workout id %q", args[0])
	}
	sampleRate := workout.DefaultSampleRate
	if len(args) > 1 {
		if _, err := fmt.Sscanf(args[1], "%d", &sampleRate); err != nil {
			return fmt.Errorf("invalid sample rate %q", args[1])
		}
	}

	detail, err := a.workouts.GetWorkout(ctx, id, sampleRate)
	if err != nil {
		return fmt.Errorf("get workout %d: %w", id, err)
	}

	fmt.Printf(
		"workout %d: type=%d duration=%.0fs kcal=%d\n",
		detail.ID, detail.Type, detail.Duration, detail.Kcal,
	)
	hrSamples := analysis.HeartRateSamples(detail)
	if window := len(hrSamples) / 10; window >= 1 && window < len(hrSamples) {
		smoothed := analysis.RollingAverage(hrSamples, window, analysis.AxisTime)
		fmt.Printf("heart rate (rolling avg over %d samples):\n", window)
		for _, p := range smoothed {
			fmt.Printf("  %8.1fs  %6.1f bpm\n", p.X, p.Y)
		}
	}
	return nil
}

// export writes one xlsx file per requested patient into the working
// directory.
func (a *app) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: export <patientId> [patientId ...]")
	}
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	ids := make([]int, 0, len(args))
	for _, arg := range args {
		var id int
		if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
			return fmt.Errorf("invalid patient id %q", arg)
		}
		ids = append(ids, id)
	}

	exports, err := a.patients.GetExport(ctx, nil, nil, ids)
	if err != nil {
		return fmt.Errorf("get export: %w", err)
	}

	for _, export := range exports {
		data, err := base64.StdEncoding.DecodeString(export.Overview)
		if err != nil {
			return fmt.Errorf("decode export for patient %d: %w", export.PatientID, err)
		}
		name := fmt.Sprintf("patient-%d-overview.xlsx", export.PatientID)
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", name, len(data))
	}
	return nil
}

func (a *app) uploadPlan(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: plan <patientId> <plan.xlsx>")
	}
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var patientID int
	if _, err := fmt.Sscanf(args[0], "%d", &patientID); err != nil {
		return fmt.Errorf("invalid patient id %q", args[0])
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read plan file: %w", err)
	}

	resp, err := a.planner.UploadTrainingPlan(ctx, planning.UploadRequest{
		PatientID:  patientID,
		XlsxBase64: base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return fmt.Errorf("upload training plan: %w", err)
	}
	fmt.Printf("%d planned workout(s) created\n", len(resp.PlannedWorkoutIDs))
	return nil
}

func (a *app) uploadSteps(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: steps <yyyy-MM-dd> <amount>")
	}
	if _, err := a.sessions.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if _, err := rest.ParseDay(args[0]); err != nil {
		return fmt.Errorf("invalid date %q: %w", args[0], err)
	}
	var amount uint
	if _, err := fmt.Sscanf(args[1], "%d", &amount); err != nil {
		return fmt.Errorf("invalid step amount %q", args[1])
	}

	resp, err := a.workouts.PostSteps(ctx, workout.StepUpload{Date: args[0], Amount: amount})
	if err != nil {
		return fmt.Errorf("post steps: %w", err)
	}
	fmt.Printf("steps recorded (id %d)\n", resp.StepID)
	return nil
}

func lastDays(end time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, end.AddDate(0, 0, -i))
	}
	return days
}

func printUsage() {
	fmt.Println(`usage: traincli [-env dev|prod] [-config path] <command> [args]

commands:
  login <username> <password>   authenticate and persist the session
  logout                        drop the persisted session
  whoami                        show the restored session
  patients [search terms]       list patient overviews, optionally filtered
  groups                        list study groups
  overview [patientId]          show the last week of workouts
  workout <id> [sampleRate]     show one workout with smoothed heart rate
  export <patientId> [...]      download overview spreadsheets
  plan <patientId> <plan.xlsx>  upload a training plan
  steps <yyyy-MM-dd> <amount>   record a day's step count`)
}
