package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sidequest/internal/bot"
	"sidequest/internal/config"
	"sidequest/internal/repository"
	"sidequest/internal/service"
	"sidequest/internal/store"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sidequest",
	Short: "SideQuest — tracking the beautifully unhinged side quests",
	Long: `SideQuest logs dated, categorized personal events and views them as a
calendar grid and a periodic "Wrapped" recap. The root command runs the
Telegram bot with the reminder and auto-backup scheduler.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup document (JSON, or ICS with --ics)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, err := openStore(ctx)
		if err != nil {
			return err
		}

		asICS, _ := cmd.Flags().GetBool("ics")
		var data []byte
		ext := "json"
		if asICS {
			data = []byte(bot.NewRenderer(st).ICS())
			ext = "ics"
		} else {
			if data, err = st.ExportJSON(); err != nil {
				return err
			}
		}

		path := fmt.Sprintf("sidequest-backup-%s.%s", time.Now().Format("2006-01-02"), ext)
		if len(args) == 1 {
			path = args[0]
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
		logger.Info("exported", zap.String("path", path))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data from a backup document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, err := openStore(ctx)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %q: %w", args[0], err)
		}
		if err := st.Import(ctx, data); err != nil {
			return err
		}
		backup := st.Export()
		logger.Info("imported",
			zap.Int("categories", len(backup.Categories)),
			zap.Int("events", len(backup.Events)))
		return nil
	},
}

var wrappedCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Print the Wrapped recap for the year (or --month)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, err := openStore(ctx)
		if err != nil {
			return err
		}

		monthly, _ := cmd.Flags().GetBool("month")
		for _, text := range bot.NewRenderer(st).Wrapped(time.Now(), monthly) {
			fmt.Println(stripTags(text))
			fmt.Println()
		}
		return nil
	},
}

func runBot() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, st, err := openStore(ctx)
	if err != nil {
		return err
	}

	reminderSvc := service.NewReminderService(st)
	telegramBot, err := bot.New(cfg.TelegramToken, st, reminderSvc, &cfg, logger)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(loc)
	if cfg.ReminderTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			if err := telegramBot.SendReminder(time.Now().In(loc)); err != nil {
				logger.Warn("send reminder", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule reminder: %w", err)
		}
	}
	if cfg.BackupInterval > 0 {
		backupSvc := service.NewBackupService(st, cfg.BackupDir)
		if _, err := scheduler.ScheduleInterval(cfg.BackupInterval, func() {
			if err := backupSvc.Run(time.Now().In(loc)); err != nil {
				logger.Warn("auto backup", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule backup: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("sidequest bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func openStore(ctx context.Context) (config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		return cfg, nil, fmt.Errorf("db: %w", err)
	}

	st, err := store.Open(ctx, repository.NewBlobRepository(db))
	if err != nil {
		return cfg, nil, fmt.Errorf("store: %w", err)
	}
	return cfg, st, nil
}

// stripTags drops the Telegram HTML markup for terminal output.
var stripTags = strings.NewReplacer(
	"<b>", "", "</b>", "",
	"<i>", "", "</i>", "",
	"<pre>", "", "</pre>", "",
	"<code>", "", "</code>", "",
).Replace

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	exportCmd.Flags().Bool("ics", false, "export as an iCalendar file instead of JSON")
	wrappedCmd.Flags().Bool("month", false, "recap the current month instead of the year")
	rootCmd.AddCommand(exportCmd, importCmd, wrappedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
