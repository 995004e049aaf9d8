package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/policyfile"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/attendance-engine/internal/service/report"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	From   string
	To     string
	Kind   string
	Out    string
	Users  []string
	Policy string
	Today  string
}

var kinds = []string{"muster", "basic", "events", "dashboard"}

func parseOptions(args []string) (options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("musterctl", pflag.ContinueOnError)
	flagSet.StringVar(&opts.From, "from", "", "first day of the range, YYYY-MM-DD (required)")
	flagSet.StringVar(&opts.To, "to", "", "last day of the range, YYYY-MM-DD (required)")
	flagSet.StringVar(&opts.Kind, "kind", "muster", "export kind: "+strings.Join(kinds, "|"))
	flagSet.StringVarP(&opts.Out, "out", "o", "-", "output file, - for stdout")
	flagSet.StringSliceVar(&opts.Users, "users", nil, "comma separated user IDs (default: all active users)")
	flagSet.StringVar(&opts.Today, "today", "", "reference date for derivation, YYYY-MM-DD (default: current date in the organization timezone)")
	flagSet.StringVar(&opts.Policy, "policy-file", "", "read policies and holidays from this YAML file instead of the database")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "musterctl exports attendance reports straight from the database.\n\nUsage:\n  musterctl --from 2025-01-01 --to 2025-01-31 --kind muster --out muster.xlsx\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	if opts.From == "" || opts.To == "" {
		return options{}, errors.New("--from and --to are required")
	}
	known := false
	for _, k := range kinds {
		known = known || opts.Kind == k
	}
	if !known {
		return options{}, fmt.Errorf("--kind must be one of: %s", strings.Join(kinds, ", "))
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	policies := postgresql.NewPolicyRepository(db)
	if opts.Policy != "" {
		store, err := policyfile.NewStore(opts.Policy)
		if err != nil {
			return fmt.Errorf("failed to load policy file: %w", err)
		}
		policies = store
	}

	loader := reportService.NewLoader(
		postgresql.NewUserRepository(db),
		postgresql.NewEventRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		policies,
		postgresql.NewCompOffRepository(db),
		cfg.Location(),
	)
	svc := reportService.NewReportService(loader)

	q := report.Query{
		StartDate: opts.From,
		EndDate:   opts.To,
		Today:     resolveToday(opts.Today, time.Now(), cfg.Location()),
		UserIDs:   opts.Users,
	}
	write := func(out io.Writer) error {
		return export(ctx, svc, opts.Kind, q, out)
	}

	if opts.Out == "-" {
		err = write(os.Stdout)
	} else {
		var f *os.File
		f, err = os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		err = writeAndClose(f, write)
	}
	if err != nil {
		return err
	}
	slog.Info("Export written", "kind", opts.Kind, "from", opts.From, "to", opts.To, "today", q.Today, "out", opts.Out)
	return nil
}

// resolveToday returns flag when set, otherwise the date of now in loc.
func resolveToday(flag string, now time.Time, loc *time.Location) string {
	if flag != "" {
		return flag
	}
	return dateutil.Format(dateutil.In(now, loc))
}

// writeAndClose runs write against f and then closes it. A failed Close is
// returned as an error.
func writeAndClose(f io.WriteCloser, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// export renders one report kind to out.
func export(ctx context.Context, svc report.ReportService, kind string, q report.Query, out io.Writer) error {
	switch kind {
	case "muster":
		m, err := svc.ComputeMuster(ctx, q)
		if err != nil {
			return err
		}
		return reportService.WriteMusterXLSX(out, m)
	case "basic":
		r, err := svc.ComputeBasicReport(ctx, q)
		if err != nil {
			return err
		}
		return reportService.WriteBasicReportCSV(out, r)
	case "events":
		log, err := svc.CollectEventLog(ctx, q)
		if err != nil {
			return err
		}
		return reportService.WriteEventLogCSV(out, log)
	case "dashboard":
		d, err := svc.ComputeDashboard(ctx, q)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
}
