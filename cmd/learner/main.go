// Command learner is the terminal counterpart of the web front-end: it runs
// the same client-side protocols (session bootstrap from a landing URL,
// session restore, logout, completed-lesson toggling) against local durable
// storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"coursegate/internal/catalog"
	"coursegate/internal/progress"
	"coursegate/internal/session"
	"coursegate/internal/storage"
)

const (
	flagDataDir = "data-dir"
	flagCatalog = "catalog"
)

func main() {
	app := &cli.App{
		Name:  "learner",
		Usage: "Local client for the coursegate learning platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagDataDir,
				Usage: "Directory for session and progress storage",
				Value: defaultDataDir(),
			},
			&cli.StringFlag{
				Name:  flagCatalog,
				Usage: "Path to the course catalog JSON",
				Value: "courses.json",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "session",
				Usage: "Manage the login session",
				Subcommands: []*cli.Command{
					{
						Name:      "bootstrap",
						Usage:     "Process a landing URL (persists the identity handoff, if any)",
						ArgsUsage: "URL",
						Action:    sessionBootstrap,
					},
					{
						Name:   "show",
						Usage:  "Show the restored session, if any",
						Action: sessionShow,
					},
					{
						Name:   "logout",
						Usage:  "Clear the persisted session",
						Action: sessionLogout,
					},
				},
			},
			{
				Name:  "progress",
				Usage: "Manage completed lessons",
				Subcommands: []*cli.Command{
					{
						Name:      "toggle",
						Usage:     "Flip completion for a lesson",
						ArgsUsage: "LESSON_ID",
						Action:    progressToggle,
					},
					{
						Name:   "list",
						Usage:  "List completed lessons",
						Action: progressList,
					},
				},
			},
			{
				Name:   "courses",
				Usage:  "List the course catalog",
				Action: coursesList,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "coursegate")
	}
	return ".coursegate"
}

// sessionStore opens the durable session store, degrading to in-memory
// storage (with a warning) when the data directory is unusable. The session
// then lasts only for this invocation, which is the contract's graceful
// fallback rather than a hard failure.
func sessionStore(c *cli.Context) *session.Store {
	kv, err := storage.NewFileKV(c.String(flagDataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; session will not persist\n", err)
		return session.NewStore(storage.NewMemoryKV())
	}
	return session.NewStore(kv)
}

// progressStore opens the durable progress store with the same degradation
// policy. The returned closer releases the database handle.
func progressStore(c *cli.Context) (progress.Store, func()) {
	path := filepath.Join(c.String(flagDataDir), "progress.db")
	if err := os.MkdirAll(c.String(flagDataDir), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; progress will not persist\n", err)
		return progress.NewInMemoryStore(), func() {}
	}
	store, err := progress.OpenSQLite(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; progress will not persist\n", err)
		return progress.NewInMemoryStore(), func() {}
	}
	return store, func() { _ = store.Close() }
}

func sessionBootstrap(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: learner session bootstrap URL")
	}
	pageURL, err := url.Parse(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	rec, stripped, active, err := sessionStore(c).Bootstrap(pageURL)
	if err != nil {
		return err
	}
	if !active {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("logged in as %s <%s>\n", rec.Name, rec.Email)
	fmt.Printf("url: %s\n", stripped.String())
	return nil
}

func sessionShow(c *cli.Context) error {
	rec, active, err := sessionStore(c).Restore()
	if err != nil {
		return err
	}
	if !active {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("logged in as %s <%s>\n", rec.Name, rec.Email)
	return nil
}

func sessionLogout(c *cli.Context) error {
	if err := sessionStore(c).Logout(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func progressToggle(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: learner progress toggle LESSON_ID")
	}
	store, closeStore := progressStore(c)
	defer closeStore()

	completed, err := store.Toggle(context.Background(), c.Args().Get(0))
	if err != nil {
		return err
	}
	if completed {
		fmt.Println("marked complete")
	} else {
		fmt.Println("marked incomplete")
	}
	return nil
}

func progressList(c *cli.Context) error {
	store, closeStore := progressStore(c)
	defer closeStore()

	ids, err := store.Load(context.Background())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no completed lessons")
		return nil
	}

	// Titles are best-effort: the catalog is a collaborator, not a dependency.
	courses, catErr := catalog.Load(c.String(flagCatalog))
	for _, id := range ids {
		if catErr == nil {
			if lesson, ok := courses.Lesson(id); ok {
				fmt.Printf("%s\t%s\n", id, lesson.Title)
				continue
			}
		}
		fmt.Println(id)
	}
	return nil
}

func coursesList(c *cli.Context) error {
	courses, err := catalog.Load(c.String(flagCatalog))
	if err != nil {
		return err
	}
	for _, course := range courses.Courses() {
		fmt.Printf("%s\t%s\n", course.ID, course.Title)
		for _, lesson := range course.Lessons {
			fmt.Printf("  %s\t%s\n", lesson.ID, lesson.Title)
		}
	}
	return nil
}
