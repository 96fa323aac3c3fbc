package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rollgrid/internal/auth"
	"rollgrid/internal/config"
	"rollgrid/internal/export"
	"rollgrid/internal/store"
	"rollgrid/internal/ui"
	"rollgrid/internal/util/logx"
	"rollgrid/internal/version"
	"rollgrid/internal/view"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("rollgrid", version.String())
		return
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "data dir:", err)
		os.Exit(1)
	}

	// One-shot export of the stored roster, no TUI.
	if cfg.ExportFormat != "" {
		if err := exportOnce(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "export error:", err)
			os.Exit(1)
		}
		fmt.Println("exported to", cfg.ExportOut)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting rollgrid %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("rollgrid exited with error: %v", err)
		os.Exit(1)
	}
}

// exportOnce writes the signed-in account's stored roster to cfg.ExportOut.
func exportOnce(cfg *config.Config) error {
	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	acct, err := auth.Current(db)
	if err != nil {
		return err
	}
	if acct == nil {
		return fmt.Errorf("no active session; sign in with the editor first")
	}
	snap, ok, err := db.LoadRoster(acct.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no stored roster for %s", acct.Email)
	}
	proj, err := view.NewProjector(view.Criteria{})
	if err != nil {
		return err
	}
	rows := proj.Project(snap, nil)

	f, err := os.Create(cfg.ExportOut)
	if err != nil {
		return err
	}
	defer f.Close()
	info := ui.RosterInfo(acct)
	switch cfg.ExportFormat {
	case "xlsx":
		return export.ToXLSX(f, snap.Columns, rows, info)
	case "pdf":
		return export.ToPDF(f, "Voters Data", info, snap.Columns, rows)
	default:
		return export.ToCSV(f, snap.Columns, rows)
	}
}
