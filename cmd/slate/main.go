// cmd/slate/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"slate/internal/config"
	"slate/internal/logging"
	"slate/internal/render"
	"slate/internal/session"
	"slate/internal/watch"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Slate tracks a set of files and applies changes to them safely",
	Long: `Slate classifies what would happen if a file were replaced or removed
(create, update, delete, or nothing) before touching the filesystem, and
refuses to write whenever the current state cannot be verified.`,
}

func openSession() (*session.Session, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		if root, err := session.FindRoot(dir); err == nil {
			dir = root
		}
		cfg = config.Default(dir)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	return session.Open(cfg, logger.Logger)
}

// readCandidate resolves the candidate content for a diff or apply: empty
// when --delete is set, otherwise the named file or stdin for "-".
func readCandidate(cmd *cobra.Command, args []string) ([]byte, error) {
	remove, _ := cmd.Flags().GetBool("delete")
	if remove {
		return nil, nil
	}

	if len(args) < 2 {
		return nil, fmt.Errorf("content file required unless --delete is set")
	}
	if args[1] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[1])
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize a slate root in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := session.Initialize(dir); err != nil {
				return fmt.Errorf("initializing root: %w", err)
			}
			fmt.Println("Initialized slate root in", dir)
			return nil
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the files in the session inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if s.Inventory.Len() == 0 {
				fmt.Println("No files in inventory")
				return nil
			}

			for _, name := range s.Inventory.Names() {
				info, _ := s.Inventory.Get(name)
				fmt.Printf("%-40s %8d bytes  %s\n", name, info.Size, info.ModTime.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff <path> [content-file]",
		Short: "Classify the pending change for a path without applying it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCandidate(cmd, args)
			if err != nil {
				return err
			}

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			rec := s.Diff(args[0], content)
			fmt.Println(render.Record(rec))
			return nil
		},
	}
	diffCmd.Flags().Bool("delete", false, "classify removal instead of replacement")

	var applyCmd = &cobra.Command{
		Use:   "apply <path> [content-file]",
		Short: "Apply the pending change for a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCandidate(cmd, args)
			if err != nil {
				return err
			}
			columns, _ := cmd.Flags().GetInt("columns")

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			rec := s.Commit(args[0], content)
			fmt.Println(render.Record(rec))
			if rec.Err != "" {
				return fmt.Errorf("apply failed: %s", rec.Err)
			}

			if grid := render.Grid(s.History(), columns); grid != "" {
				fmt.Print(grid)
			}
			return nil
		},
	}
	applyCmd.Flags().Bool("delete", false, "remove the file instead of replacing it")
	applyCmd.Flags().Int("columns", 3, "grid columns for the change summary")

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Report drift against the session inventory until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			w, err := watch.New(s.BasePath, s.Inventory, s.Logger)
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer w.Close()

			fmt.Println("Watching", s.BasePath)
			for ev := range w.Events() {
				fmt.Printf("%s  %s\n", kindColor(ev.Kind).Sprint(ev.Kind), ev.Path)
			}
			return nil
		},
	}

	rootCmd.AddCommand(initCmd, statusCmd, diffCmd, applyCmd, watchCmd)
}

func kindColor(k watch.Kind) *color.Color {
	switch k {
	case watch.Created:
		return color.New(color.FgGreen)
	case watch.Removed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
