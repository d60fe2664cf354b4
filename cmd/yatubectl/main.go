package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/fkhayef/yatube/internal/config"
	"github.com/fkhayef/yatube/internal/database"
	"github.com/fkhayef/yatube/internal/group"
	"github.com/fkhayef/yatube/pkg/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := newApp(config.Load()).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "yatubectl",
		Usage: "administer the yatube database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection string",
				Value:   cfg.DatabaseURL,
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			groupCommand(),
		},
	}
}

func connect(c *cli.Context) (*sql.DB, error) {
	return database.NewPostgresConnection(c.String("database-url"))
}

func migrateCommand() *cli.Command {
	run := func(command string) cli.ActionFunc {
		return func(c *cli.Context) error {
			db, err := connect(c)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(db, command)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or inspect schema migrations",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "apply all pending migrations", Action: run("up")},
			{Name: "down", Usage: "roll back the latest migration", Action: run("down")},
			{Name: "status", Usage: "print migration status", Action: run("status")},
		},
	}
}

func groupCommand() *cli.Command {
	withService := func(fn func(c *cli.Context, svc *group.Service) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			db, err := connect(c)
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(c, group.NewService(group.NewRepository(db)))
		}
	}

	return &cli.Command{
		Name:  "group",
		Usage: "manage post groups",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a group",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "slug", Required: true},
					&cli.StringFlag{Name: "description", Required: true},
				},
				Action: withService(func(c *cli.Context, svc *group.Service) error {
					g, err := svc.Create(c.Context, &group.CreateGroupRequest{
						Title:       c.String("title"),
						Slug:        c.String("slug"),
						Description: c.String("description"),
					})
					if errs, ok := validation.AsErrors(err); ok {
						return cli.Exit(errs.Error(), 1)
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "created group %d (%s)\n", g.ID, g.Slug)
					return nil
				}),
			},
			{
				Name:  "delete",
				Usage: "delete a group, keeping its posts ungrouped",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Required: true},
				},
				Action: withService(func(c *cli.Context, svc *group.Service) error {
					detached, err := svc.DeleteBySlug(c.Context, c.String("slug"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted group %s, %d posts left without a group\n", c.String("slug"), detached)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list all groups",
				Action: withService(func(c *cli.Context, svc *group.Service) error {
					groups, err := svc.List(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
					for _, g := range groups {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
					}
					return tw.Flush()
				}),
			},
		},
	}
}
